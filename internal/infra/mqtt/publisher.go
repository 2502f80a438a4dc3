package mqtt

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"voice-servo/internal/domain"
)

const disconnectQuiesce = 250

type Publisher struct {
	cfg       Config
	topic     string
	newClient ClientFactory
	logger    *slog.Logger
}

func NewPublisher(cfg Config, topic string, logger *slog.Logger) *Publisher {
	return NewPublisherWithFactory(cfg, topic, paho.NewClient, logger)
}

func NewPublisherWithFactory(cfg Config, topic string, factory ClientFactory, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:       cfg,
		topic:     topic,
		newClient: factory,
		logger:    logger,
	}
}

// Publish opens a fresh connection, sends cmd as a plain-text payload and
// disconnects. Errors are returned as is; there is no retry.
func (p *Publisher) Publish(ctx context.Context, cmd domain.Command) error {
	opts := p.cfg.options(strconv.FormatInt(time.Now().UnixNano(), 36))
	client := p.newClient(opts)

	if err := wait(client.Connect(), p.cfg.Timeout, "connecting to "+p.cfg.brokerURL()); err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesce)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := wait(client.Publish(p.topic, 0, false, string(cmd)), p.cfg.Timeout, "publishing to "+p.topic); err != nil {
		return err
	}

	p.logger.Debug("published", "topic", p.topic, "payload", string(cmd))
	return nil
}

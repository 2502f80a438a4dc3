package mqtt

import (
	"context"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler receives every message on the monitored topics.
type MessageHandler func(topic string, payload []byte)

// Monitor keeps one connection open and subscribes to a topic filter.
type Monitor struct {
	cfg       Config
	filter    string
	newClient ClientFactory
	logger    *slog.Logger
}

func NewMonitor(cfg Config, filter string, logger *slog.Logger) *Monitor {
	return NewMonitorWithFactory(cfg, filter, paho.NewClient, logger)
}

func NewMonitorWithFactory(cfg Config, filter string, factory ClientFactory, logger *slog.Logger) *Monitor {
	return &Monitor{
		cfg:       cfg,
		filter:    filter,
		newClient: factory,
		logger:    logger,
	}
}

// Run subscribes and delivers messages to handle until ctx is done.
func (m *Monitor) Run(ctx context.Context, handle MessageHandler) error {
	opts := m.cfg.options("monitor").
		SetAutoReconnect(true).
		SetOnConnectHandler(func(_ paho.Client) {
			m.logger.Info("connected to broker", "broker", m.cfg.brokerURL())
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			m.logger.Warn("connection lost", "error", err)
		})

	client := m.newClient(opts)
	if err := wait(client.Connect(), m.cfg.Timeout, "connecting to "+m.cfg.brokerURL()); err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesce)

	callback := func(_ paho.Client, msg paho.Message) {
		handle(msg.Topic(), msg.Payload())
	}
	if err := wait(client.Subscribe(m.filter, 0, callback), m.cfg.Timeout, "subscribing to "+m.filter); err != nil {
		return err
	}

	m.logger.Info("listening for messages", "filter", m.filter)

	<-ctx.Done()

	if err := wait(client.Unsubscribe(m.filter), m.cfg.Timeout, "unsubscribing"); err != nil {
		m.logger.Warn("unsubscribe failed", "error", err)
	}
	return ctx.Err()
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-servo/internal/domain"
)

type Options struct {
	// ErrorPause is how long the error color stays up before listening again.
	ErrorPause time.Duration
	// StartupPulse is how long the listening color flashes at startup. Zero skips it.
	StartupPulse time.Duration
}

func DefaultOptions() Options {
	return Options{
		ErrorPause:   500 * time.Millisecond,
		StartupPulse: 500 * time.Millisecond,
	}
}

type Assistant struct {
	audio     AudioSource
	stt       SpeechToText
	publisher CommandPublisher
	indicator Indicator
	metrics   Metrics
	logger    *slog.Logger
	opts      Options
}

func NewAssistant(
	audio AudioSource,
	stt SpeechToText,
	publisher CommandPublisher,
	indicator Indicator,
	metrics Metrics,
	logger *slog.Logger,
	opts Options,
) *Assistant {
	if indicator == nil {
		indicator = &NoopIndicator{}
	}
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	return &Assistant{
		audio:     audio,
		stt:       stt,
		publisher: publisher,
		indicator: indicator,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}
}

// Run loops until ctx is cancelled. Only a failure to start the audio source
// is returned; every per-iteration failure is logged and recovered.
func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()
	defer a.indicator.Show(domain.IndicatorOff)

	if a.opts.StartupPulse > 0 {
		a.indicator.Show(domain.IndicatorListening)
		a.sleep(ctx, a.opts.StartupPulse)
		a.indicator.Show(domain.IndicatorOff)
	}

	a.logger.Info("assistant ready", "commands", commandList())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cmd, err := a.processOneCommand(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.handleFailure(ctx, err)
			continue
		}

		a.metrics.CommandPublished(cmd)
	}
}

func (a *Assistant) processOneCommand(ctx context.Context) (domain.Command, error) {
	a.indicator.Show(domain.IndicatorListening)
	a.logger.Info("listening")

	utterance, err := a.audio.Capture(ctx)
	if err != nil {
		return domain.CommandNone, fmt.Errorf("capturing audio: %w", err)
	}

	a.indicator.Show(domain.IndicatorRecognized)
	a.logger.Info("recognizing", "seconds", utterance.Duration())

	started := time.Now()
	text, err := a.stt.Transcribe(ctx, utterance)
	a.metrics.Transcribed(time.Since(started))
	if err != nil {
		return domain.CommandNone, fmt.Errorf("transcribing: %w", err)
	}

	text = strings.ToLower(strings.TrimSpace(text))
	a.logger.Info("transcribed", "text", text)

	cmd := Classify(text)
	if cmd == domain.CommandNone {
		return domain.CommandNone, fmt.Errorf("%w: %q", domain.ErrUnrecognizedCommand, text)
	}

	a.logger.Info("classified", "command", cmd)

	if err := a.publisher.Publish(ctx, cmd); err != nil {
		return cmd, fmt.Errorf("%w %s: %w", domain.ErrPublish, cmd, err)
	}

	a.indicator.Show(domain.IndicatorSent)
	a.logger.Info("sent", "command", cmd)

	return cmd, nil
}

func (a *Assistant) handleFailure(ctx context.Context, err error) {
	kind := domain.KindOf(err)

	switch kind {
	case domain.KindCaptureTimeout:
		a.logger.Warn("no speech heard", "error", err)
	case domain.KindCaptureDevice:
		a.logger.Error("listen error", "error", err)
	case domain.KindUnintelligible:
		a.logger.Warn("could not understand audio")
	case domain.KindTranscriptionService:
		a.logger.Error("transcription failed", "error", err)
	case domain.KindUnrecognizedCommand:
		a.logger.Warn("unrecognized command", "error", err, "try", commandList())
	case domain.KindPublish:
		a.logger.Error("publish failed", "error", err)
	case domain.KindHardwareInit, domain.KindUnknown, domain.KindNone:
		a.logger.Error("processing command", "kind", kind, "error", err)
	}

	a.metrics.Failure(kind)
	a.indicator.Show(domain.IndicatorError)
	a.sleep(ctx, a.opts.ErrorPause)
}

func (a *Assistant) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func commandList() string {
	names := make([]string, len(domain.Commands))
	for i, c := range domain.Commands {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

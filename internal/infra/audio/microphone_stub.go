//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"voice-servo/internal/domain"
)

// MicrophoneSource stub when portaudio is not available
type MicrophoneSource struct {
	logger *slog.Logger
}

func NewMicrophoneSource(sampleRate int, settings CaptureSettings, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{logger: logger}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	return fmt.Errorf("%w: microphone source not available, rebuild with -tags portaudio", domain.ErrCaptureDevice)
}

func (m *MicrophoneSource) Stop() error {
	return nil
}

func (m *MicrophoneSource) Capture(_ context.Context) (domain.Utterance, error) {
	return domain.Utterance{}, fmt.Errorf("%w: microphone source not available", domain.ErrCaptureDevice)
}

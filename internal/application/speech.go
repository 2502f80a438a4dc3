package application

import (
	"context"
	"fmt"

	"voice-servo/internal/domain"
)

// SpeechToText returns the best-guess transcript of an utterance, or an error
// wrapping domain.ErrUnintelligible or domain.ErrTranscriptionService.
type SpeechToText interface {
	Transcribe(ctx context.Context, utterance domain.Utterance) (string, error)
}

// NoopSTT is used when no transcription backend is configured.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ domain.Utterance) (string, error) {
	return "", fmt.Errorf("%w: no backend configured, set transcription.backend", domain.ErrTranscriptionService)
}

package application

import (
	"context"

	"voice-servo/internal/domain"
)

// AudioSource yields one utterance per Capture call. Implementations return
// errors wrapping domain.ErrCaptureTimeout or domain.ErrCaptureDevice.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	Capture(ctx context.Context) (domain.Utterance, error)
	Name() string
}

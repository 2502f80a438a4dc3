package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"voice-servo/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"nil", nil, domain.KindNone},
		{"timeout wrapped", fmt.Errorf("capturing audio: %w", domain.ErrCaptureTimeout), domain.KindCaptureTimeout},
		{"device", fmt.Errorf("reading stream: %w", domain.ErrCaptureDevice), domain.KindCaptureDevice},
		{"unintelligible", domain.ErrUnintelligible, domain.KindUnintelligible},
		{"service", fmt.Errorf("%w: 503", domain.ErrTranscriptionService), domain.KindTranscriptionService},
		{"unrecognized", fmt.Errorf("%w: %q", domain.ErrUnrecognizedCommand, "hello"), domain.KindUnrecognizedCommand},
		{"publish joined", fmt.Errorf("%w: %w", domain.ErrPublish, errors.New("connection refused")), domain.KindPublish},
		{"hardware", domain.ErrHardwareInit, domain.KindHardwareInit},
		{"other", errors.New("boom"), domain.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndicatorState_Color(t *testing.T) {
	if got := domain.IndicatorListening.Color(); got != domain.ColorBlue {
		t.Errorf("listening: got %v, want blue", got)
	}
	if got := domain.IndicatorError.Color(); got != (domain.Color{R: 255, G: 255}) {
		t.Errorf("error: got %v, want yellow", got)
	}
	if got := domain.IndicatorState("bogus").Color(); got != domain.ColorBlack {
		t.Errorf("unknown: got %v, want black", got)
	}
}

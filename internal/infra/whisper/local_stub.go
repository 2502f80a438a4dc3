//go:build !whisper
// +build !whisper

package whisper

import (
	"context"
	"errors"

	"voice-servo/internal/domain"
)

// LocalTranscriber stub when whisper.cpp is not linked
type LocalTranscriber struct{}

func NewLocalTranscriber(modelPath, language string, threads int) (*LocalTranscriber, error) {
	return nil, errors.New("local whisper not available: rebuild with -tags whisper")
}

func (t *LocalTranscriber) Close() error {
	return nil
}

func (t *LocalTranscriber) Transcribe(_ context.Context, _ domain.Utterance) (string, error) {
	return "", domain.ErrTranscriptionService
}

//go:build whisper
// +build whisper

package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	wcpp "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"voice-servo/internal/domain"
)

const sampleRate = 16000

type LocalTranscriber struct {
	model    wcpp.Model
	language string
	threads  int
}

func NewLocalTranscriber(modelPath, language string, threads int) (*LocalTranscriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := wcpp.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if language == "" {
		language = "auto"
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &LocalTranscriber{model: m, language: language, threads: threads}, nil
}

func (t *LocalTranscriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe expects 16 kHz audio, which is what whisper.cpp is trained on.
func (t *LocalTranscriber) Transcribe(ctx context.Context, utterance domain.Utterance) (string, error) {
	if len(utterance.Samples) == 0 {
		return "", domain.ErrUnintelligible
	}
	if utterance.SampleRate != sampleRate {
		return "", fmt.Errorf("%w: sample rate %d, want %d", domain.ErrTranscriptionService, utterance.SampleRate, sampleRate)
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("%w: new context: %w", domain.ErrTranscriptionService, err)
	}
	if err := wctx.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("%w: set language: %w", domain.ErrTranscriptionService, err)
	}
	wctx.SetThreads(uint(t.threads))

	if err := wctx.Process(PCMToFloat(utterance.Samples), nil, nil, nil); err != nil {
		return "", fmt.Errorf("%w: process: %w", domain.ErrTranscriptionService, err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: next segment: %w", domain.ErrTranscriptionService, err)
		}
		parts = append(parts, s.Text)
	}

	text := JoinSegments(parts)
	if text == "" {
		return "", domain.ErrUnintelligible
	}
	return strings.TrimSpace(text), nil
}

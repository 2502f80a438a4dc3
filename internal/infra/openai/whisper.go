package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voice-servo/internal/domain"
	"voice-servo/internal/infra/audio"
)

type WhisperClient struct {
	client   sdk.Client
	language string
}

func NewWhisperClient(apiKey, language string, maxRetries int) *WhisperClient {
	return newWhisperClient(language,
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(maxRetries),
	)
}

func NewWhisperClientWithURL(apiKey, language, baseURL string) *WhisperClient {
	return newWhisperClient(language,
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
}

func newWhisperClient(language string, opts ...option.RequestOption) *WhisperClient {
	opts = append(opts, option.WithRequestTimeout(30*time.Second))
	return &WhisperClient{
		client:   sdk.NewClient(opts...),
		language: language,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, utterance domain.Utterance) (string, error) {
	wavData, err := audio.EncodeWAV(utterance)
	if err != nil {
		return "", fmt.Errorf("%w: encoding audio: %w", domain.ErrTranscriptionService, err)
	}

	params := sdk.AudioTranscriptionNewParams{
		File:  sdk.File(bytes.NewReader(wavData), "utterance.wav", "audio/wav"),
		Model: sdk.AudioModelWhisper1,
	}
	if c.language != "" {
		params.Language = sdk.String(c.language)
	}

	res, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: whisper API error %d: %w", domain.ErrTranscriptionService, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrTranscriptionService, err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", domain.ErrUnintelligible
	}

	return text, nil
}

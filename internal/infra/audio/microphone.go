//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"voice-servo/internal/domain"
)

const framesPerBuffer = 512

type MicrophoneSource struct {
	sampleRate int
	settings   CaptureSettings
	logger     *slog.Logger
}

func NewMicrophoneSource(sampleRate int, settings CaptureSettings, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		sampleRate: sampleRate,
		settings:   settings,
		logger:     logger,
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing portaudio: %w", domain.ErrCaptureDevice, err)
	}
	m.logger.Info("microphone ready", "sampleRate", m.sampleRate)
	return nil
}

func (m *MicrophoneSource) Stop() error {
	return portaudio.Terminate()
}

// Capture opens the default input for the duration of one phrase. The stream
// is stopped and closed on every return path.
func (m *MicrophoneSource) Capture(ctx context.Context) (domain.Utterance, error) {
	buffer := make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(buffer), buffer)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("%w: opening stream: %w", domain.ErrCaptureDevice, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return domain.Utterance{}, fmt.Errorf("%w: starting stream: %w", domain.ErrCaptureDevice, err)
	}
	defer stream.Stop()

	read := func() ([]int16, error) {
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("%w: reading stream: %w", domain.ErrCaptureDevice, err)
		}
		frame := make([]int16, len(buffer))
		copy(frame, buffer)
		return frame, nil
	}

	frameDur := frameDuration(len(buffer), m.sampleRate)
	detector := NewDetector(m.settings.EnergyFloor, m.settings.EnergyRatio)

	var ambient [][]int16
	for elapsed := frameDur; elapsed <= m.settings.Calibration; elapsed += frameDur {
		frame, err := read()
		if err != nil {
			return domain.Utterance{}, err
		}
		ambient = append(ambient, frame)
	}
	detector.Calibrate(ambient)
	m.logger.Debug("calibrated", "threshold", detector.Threshold())

	segmenter := NewSegmenter(detector, frameDur, m.settings)
	for {
		if err := ctx.Err(); err != nil {
			return domain.Utterance{}, err
		}

		frame, err := read()
		if err != nil {
			return domain.Utterance{}, err
		}

		switch segmenter.Feed(frame) {
		case SegmentTimeout:
			return domain.Utterance{}, fmt.Errorf("%w after %s", domain.ErrCaptureTimeout, m.settings.ListenTimeout)
		case SegmentDone:
			return domain.Utterance{Samples: segmenter.Samples(), SampleRate: m.sampleRate}, nil
		}
	}
}

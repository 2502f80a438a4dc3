package audio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"voice-servo/internal/domain"
	"voice-servo/internal/infra/audio"
)

func writeWAV(t *testing.T, fs afero.Fs, path string, u domain.Utterance) {
	t.Helper()
	data, err := audio.EncodeWAV(u)
	if err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestFileSource_CapturesInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := audio.NewFileSource(fs, "/audio", time.Second)
	source.SetPollInterval(10 * time.Millisecond)

	ctx := context.Background()
	if err := source.Start(ctx); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	writeWAV(t, fs, "/audio/b.wav", domain.Utterance{Samples: []int16{2, 2}, SampleRate: 16000})
	writeWAV(t, fs, "/audio/a.wav", domain.Utterance{Samples: []int16{1}, SampleRate: 16000})
	if err := afero.WriteFile(fs, "/audio/notes.txt", []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := source.Capture(ctx)
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if len(first.Samples) != 1 {
		t.Errorf("first capture: got %d samples, want 1 (a.wav)", len(first.Samples))
	}

	second, err := source.Capture(ctx)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if len(second.Samples) != 2 {
		t.Errorf("second capture: got %d samples, want 2 (b.wav)", len(second.Samples))
	}

	if ok, _ := afero.Exists(fs, "/audio/a.wav.processed"); !ok {
		t.Error("a.wav was not renamed to .processed")
	}
}

func TestFileSource_Timeout(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := audio.NewFileSource(fs, "/audio", 50*time.Millisecond)
	source.SetPollInterval(10 * time.Millisecond)

	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	_, err := source.Capture(context.Background())
	if !errors.Is(err, domain.ErrCaptureTimeout) {
		t.Errorf("got %v, want ErrCaptureTimeout", err)
	}
}

func TestFileSource_BadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := audio.NewFileSource(fs, "/audio", time.Second)

	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("starting source: %v", err)
	}
	if err := afero.WriteFile(fs, "/audio/broken.wav", []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := source.Capture(context.Background())
	if !errors.Is(err, domain.ErrCaptureDevice) {
		t.Errorf("got %v, want ErrCaptureDevice", err)
	}
}

func TestFileSource_Cancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := audio.NewFileSource(fs, "/audio", 0)
	source.SetPollInterval(10 * time.Millisecond)

	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := source.Capture(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

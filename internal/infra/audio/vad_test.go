package audio_test

import (
	"testing"
	"time"

	"voice-servo/internal/infra/audio"
)

func frame(n int, amplitude int16) []int16 {
	f := make([]int16, n)
	for i := range f {
		if i%2 == 0 {
			f[i] = amplitude
		} else {
			f[i] = -amplitude
		}
	}
	return f
}

func TestDetector_Calibrate(t *testing.T) {
	d := audio.NewDetector(300, 1.5)

	d.Calibrate([][]int16{frame(160, 1000), frame(160, 1000)})
	if got := d.Threshold(); got != 1500 {
		t.Errorf("threshold: got %v, want 1500", got)
	}

	d.Calibrate([][]int16{frame(160, 10)})
	if got := d.Threshold(); got != 300 {
		t.Errorf("threshold below floor: got %v, want 300", got)
	}

	if d.IsSpeech(frame(160, 200)) {
		t.Error("quiet frame detected as speech")
	}
	if !d.IsSpeech(frame(160, 5000)) {
		t.Error("loud frame not detected as speech")
	}
}

func TestSegmenter(t *testing.T) {
	settings := audio.CaptureSettings{
		ListenTimeout: 100 * time.Millisecond,
		Pause:         30 * time.Millisecond,
		PhraseLimit:   200 * time.Millisecond,
	}
	frameDur := 10 * time.Millisecond
	quiet := frame(160, 0)
	loud := frame(160, 4000)

	t.Run("times out without speech", func(t *testing.T) {
		s := audio.NewSegmenter(audio.NewDetector(300, 1), frameDur, settings)
		var state audio.SegmentState
		frames := 0
		for state != audio.SegmentTimeout {
			state = s.Feed(quiet)
			frames++
			if frames > 100 {
				t.Fatal("segmenter never timed out")
			}
		}
		if frames != 10 {
			t.Errorf("timeout after %d frames, want 10", frames)
		}
	})

	t.Run("ends on pause", func(t *testing.T) {
		s := audio.NewSegmenter(audio.NewDetector(300, 1), frameDur, settings)
		s.Feed(quiet)
		if got := s.Feed(loud); got != audio.SegmentSpeaking {
			t.Fatalf("got state %v, want speaking", got)
		}
		s.Feed(loud)
		s.Feed(quiet)
		s.Feed(quiet)
		if got := s.Feed(quiet); got != audio.SegmentDone {
			t.Fatalf("got state %v, want done", got)
		}
		if got := len(s.Samples()); got != 5*160 {
			t.Errorf("samples: got %d, want %d", got, 5*160)
		}
	})

	t.Run("ends on phrase limit", func(t *testing.T) {
		s := audio.NewSegmenter(audio.NewDetector(300, 1), frameDur, settings)
		var state audio.SegmentState
		frames := 0
		for state != audio.SegmentDone {
			state = s.Feed(loud)
			frames++
			if frames > 100 {
				t.Fatal("segmenter never finished")
			}
		}
		if frames != 20 {
			t.Errorf("done after %d frames, want 20", frames)
		}
	})
}

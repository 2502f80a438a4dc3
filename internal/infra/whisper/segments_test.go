package whisper_test

import (
	"testing"

	"voice-servo/internal/infra/whisper"
)

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"plain", []string{" turn 90", " right"}, "turn 90 right"},
		{"annotations dropped", []string{"[BLANK_AUDIO]", " open", "(music)"}, "open"},
		{"repeats dropped", []string{" dance", " dance"}, "dance"},
		{"only noise", []string{"[BLANK_AUDIO]", "  "}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := whisper.JoinSegments(tt.segments); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPCMToFloat(t *testing.T) {
	got := whisper.PCMToFloat([]int16{0, -32768, 16384})
	want := []float32{0, -1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

package domain

// Utterance is one captured segment of mono 16-bit PCM audio.
type Utterance struct {
	Samples    []int16
	SampleRate int
}

func (u Utterance) Duration() float64 {
	if u.SampleRate == 0 {
		return 0
	}
	return float64(len(u.Samples)) / float64(u.SampleRate)
}

package audio

import (
	"math"
	"time"
)

// CaptureSettings bounds a single capture.
type CaptureSettings struct {
	Calibration   time.Duration // ambient noise sampling before listening
	ListenTimeout time.Duration // max wait for speech to start
	Pause         time.Duration // trailing silence that ends a phrase
	PhraseLimit   time.Duration // max phrase length
	EnergyFloor   float64       // minimum RMS treated as speech
	EnergyRatio   float64       // threshold = ambient RMS * ratio
}

func DefaultCaptureSettings() CaptureSettings {
	return CaptureSettings{
		Calibration:   300 * time.Millisecond,
		ListenTimeout: 5 * time.Second,
		Pause:         800 * time.Millisecond,
		PhraseLimit:   4 * time.Second,
		EnergyFloor:   300,
		EnergyRatio:   1.5,
	}
}

// Detector is an RMS energy voice activity detector.
type Detector struct {
	floor     float64
	ratio     float64
	threshold float64
}

func NewDetector(floor, ratio float64) *Detector {
	if ratio <= 0 {
		ratio = 1
	}
	return &Detector{floor: floor, ratio: ratio, threshold: floor}
}

// Calibrate sets the threshold from ambient frames. The threshold never drops
// below the floor.
func (d *Detector) Calibrate(frames [][]int16) {
	if len(frames) == 0 {
		d.threshold = d.floor
		return
	}
	var sum float64
	for _, f := range frames {
		sum += RMS(f)
	}
	d.threshold = math.Max(d.floor, sum/float64(len(frames))*d.ratio)
}

func (d *Detector) Threshold() float64 {
	return d.threshold
}

func (d *Detector) IsSpeech(frame []int16) bool {
	return RMS(frame) > d.threshold
}

func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var s float64
	for _, x := range frame {
		v := float64(x)
		s += v * v
	}
	return math.Sqrt(s / float64(len(frame)))
}

type SegmentState int

const (
	SegmentWaiting SegmentState = iota
	SegmentSpeaking
	SegmentDone
	SegmentTimeout
)

// Segmenter accumulates frames from the start of speech until a pause or the
// phrase limit.
type Segmenter struct {
	detector *Detector
	frameDur time.Duration
	settings CaptureSettings

	speaking bool
	waited   time.Duration
	silence  time.Duration
	recorded time.Duration
	samples  []int16
}

func NewSegmenter(detector *Detector, frameDur time.Duration, settings CaptureSettings) *Segmenter {
	return &Segmenter{
		detector: detector,
		frameDur: frameDur,
		settings: settings,
	}
}

func (s *Segmenter) Feed(frame []int16) SegmentState {
	speech := s.detector.IsSpeech(frame)

	if !s.speaking {
		s.waited += s.frameDur
		if !speech {
			if s.settings.ListenTimeout > 0 && s.waited >= s.settings.ListenTimeout {
				return SegmentTimeout
			}
			return SegmentWaiting
		}
		s.speaking = true
	}

	s.samples = append(s.samples, frame...)
	s.recorded += s.frameDur

	if speech {
		s.silence = 0
	} else {
		s.silence += s.frameDur
	}

	if s.settings.Pause > 0 && s.silence >= s.settings.Pause {
		return SegmentDone
	}
	if s.settings.PhraseLimit > 0 && s.recorded >= s.settings.PhraseLimit {
		return SegmentDone
	}
	return SegmentSpeaking
}

func (s *Segmenter) Samples() []int16 {
	return s.samples
}

// frameDuration is the wall time covered by n samples at rate.
func frameDuration(n, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(rate)
}

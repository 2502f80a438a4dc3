package domain

type IndicatorState string

const (
	IndicatorListening  IndicatorState = "listening"
	IndicatorRecognized IndicatorState = "recognized"
	IndicatorSent       IndicatorState = "sent"
	IndicatorError      IndicatorState = "error"
	IndicatorOff        IndicatorState = "off"
)

// Color is an RGB triple with 8 bits per channel.
type Color struct {
	R, G, B uint8
}

var (
	ColorBlue   = Color{0, 0, 255}
	ColorGreen  = Color{0, 255, 0}
	ColorRed    = Color{255, 0, 0}
	ColorYellow = Color{255, 255, 0}
	ColorBlack  = Color{0, 0, 0}
)

// Color returns the LED color shown for the state. Unknown states are dark.
func (s IndicatorState) Color() Color {
	switch s {
	case IndicatorListening:
		return ColorBlue
	case IndicatorRecognized:
		return ColorGreen
	case IndicatorSent:
		return ColorRed
	case IndicatorError:
		return ColorYellow
	default:
		return ColorBlack
	}
}

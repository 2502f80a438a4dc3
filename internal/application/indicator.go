package application

import "voice-servo/internal/domain"

// Indicator reflects the loop phase to the user. Implementations must not
// block the loop on hardware faults.
type Indicator interface {
	Show(state domain.IndicatorState)
}

type NoopIndicator struct{}

func (n *NoopIndicator) Show(_ domain.IndicatorState) {}

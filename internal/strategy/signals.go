package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// neutral builds a no-opinion signal with a diagnostic reason.
func neutral(name string, bar types.Bar, reason string) types.Signal {
	return types.Signal{
		Time:      bar.Time,
		Symbol:    bar.Symbol,
		Strategy:  name,
		Direction: types.DirectionNeutral,
		Reason:    reason,
	}
}

// noMarketData is the boundary answer for malformed bars.
func noMarketData(name string, bar types.Bar) types.Signal {
	return neutral(name, bar, "no market data")
}

// warmingUp reports how much history is still missing.
func warmingUp(name string, bar types.Bar, have, need int) types.Signal {
	return neutral(name, bar, fmt.Sprintf("warming up (%d/%d bars)", have, need))
}

// open builds a directional opening signal. Confidence is clamped to (0, 1].
func open(name string, bar types.Bar, dir types.Direction, confidence float64, reason string) types.Signal {
	return types.Signal{
		Time:       bar.Time,
		Symbol:     bar.Symbol,
		Strategy:   name,
		Direction:  dir,
		Confidence: clampConfidence(confidence),
		Reason:     reason,
	}
}

// exit builds a position-closing signal. The direction is that of the
// closing trade: an exit of a long position is a short-direction signal.
func exit(name string, bar types.Bar, dir types.Direction, confidence float64, reason string) types.Signal {
	s := open(name, bar, dir, confidence, reason)
	s.Exit = true

	return s
}

func clampConfidence(c float64) float64 {
	if c > 1 {
		return 1
	}

	if c <= 0 {
		// Directional signals always carry some conviction.
		return 0.01
	}

	return c
}

// crossedAbove reports a transition from at-or-below to above the threshold
// between two consecutive evaluations.
func crossedAbove(prev, current, threshold float64) bool {
	return prev <= threshold && current > threshold
}

// crossedBelow reports a transition from at-or-above to below the threshold.
func crossedBelow(prev, current, threshold float64) bool {
	return prev >= threshold && current < threshold
}

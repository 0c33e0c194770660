package types

import "time"

type Direction string

const (
	// DirectionLong is a signal to open or add to a long position
	DirectionLong Direction = "long"
	// DirectionShort is a signal to open or add to a short position
	DirectionShort Direction = "short"
	// DirectionNeutral is a signal that carries no trading opinion
	DirectionNeutral Direction = "neutral"
)

// Signal is the decision a strategy emits for one bar. Neutral signals carry
// confidence 0 and a diagnostic reason; directional signals carry a
// confidence greater than 0.
type Signal struct {
	// Time is the time of the bar that produced the signal
	Time time.Time
	// Symbol is the symbol of the signal
	Symbol string
	// Strategy is the name of the strategy that produced the signal
	Strategy string
	// Direction is the trade direction of the signal
	Direction Direction
	// Confidence is the strategy's conviction in [0, 1]
	Confidence float64
	// Reason is a human-readable explanation, also used for diagnostics on
	// neutral signals. It is never parsed by a consumer.
	Reason string
	// Exit marks the signal as closing an existing position rather than
	// opening a new one
	Exit bool
}

// Actionable reports whether the signal carries a trading opinion.
func (s Signal) Actionable() bool {
	return s.Direction != DirectionNeutral
}

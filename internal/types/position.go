package types

// PositionView exposes the current signed position for a symbol from an
// external portfolio component. A positive value is a long position, a
// negative value a short position, zero is flat. Implementations must be
// side-effect free and safe to call at arbitrary frequency.
type PositionView interface {
	Position(symbol string) int
}

// FlatBook is a PositionView that reports no open positions. Useful for
// replays and tests.
type FlatBook struct{}

// Position implements PositionView.
func (FlatBook) Position(string) int { return 0 }

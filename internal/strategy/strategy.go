// Package strategy contains the streaming signal strategies. Every strategy
// follows the same per-symbol state machine: it warms up until its rolling
// window holds enough history, then evaluates its indicator against a set of
// ordered, position-guarded rules and emits a signal for each incoming bar.
package strategy

import (
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Strategy is the contract every indicator variant implements. Evaluate is
// the sole entry point consumed by the dispatch engine: it must never panic
// and answers Neutral rather than erroring for recoverable conditions
// (insufficient history, malformed bars, degenerate arithmetic).
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// Classification returns the intended holding horizon. The engine only
	// stores and returns it; an external scheduler uses it to pick cadence.
	Classification() types.Classification
	// Evaluate updates the per-symbol state with the bar, consults the
	// position book, and returns the resulting signal.
	Evaluate(book types.PositionView, bar types.Bar) types.Signal
	// Reset clears all per-symbol state, returning every symbol to warm-up.
	Reset()
}

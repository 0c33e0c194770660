package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// EMACross is the exponential variant of the moving average crossover. It
// reacts faster than SMACross because recent bars carry more weight.
type EMACross struct {
	fastPeriod int
	slowPeriod int
	state      *table[emaCrossState]
}

type emaCrossState struct {
	closes   *buffer.Rolling[float64]
	prevFast optional.Option[float64]
	prevSlow optional.Option[float64]
}

// NewEMACross creates an EMA crossover strategy with the given periods.
func NewEMACross(fastPeriod, slowPeriod int) *EMACross {
	if fastPeriod <= 0 {
		fastPeriod = 12
	}

	if slowPeriod <= fastPeriod {
		slowPeriod = 26
		if slowPeriod <= fastPeriod {
			slowPeriod = fastPeriod * 2
		}
	}

	return &EMACross{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		state:      newTable[emaCrossState](),
	}
}

// Name returns the name of the strategy.
func (s *EMACross) Name() string {
	return fmt.Sprintf("ema_cross_%d_%d", s.fastPeriod, s.slowPeriod)
}

// Classification returns the intended holding horizon.
func (s *EMACross) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *EMACross) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *EMACross) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *emaCrossState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.slowPeriod)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.slowPeriod)
			return
		}

		snapshot := st.closes.Values()
		fast, _ := indicator.EMA(snapshot, s.fastPeriod)
		slow, _ := indicator.EMA(snapshot, s.slowPeriod)

		prevFast := st.prevFast
		prevSlow := st.prevSlow
		st.prevFast = optional.Some(fast)
		st.prevSlow = optional.Some(slow)

		if prevFast.IsNone() || prevSlow.IsNone() {
			sig = neutral(s.Name(), bar, fmt.Sprintf("awaiting crossover baseline (fast=%.4f slow=%.4f)", fast, slow))
			return
		}

		pf := prevFast.Unwrap()
		ps := prevSlow.Unwrap()
		pos := book.Position(bar.Symbol)

		switch {
		case pf >= ps && fast < slow && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.65,
				fmt.Sprintf("fast EMA %.4f lost slow EMA %.4f while long", fast, slow))
		case pf <= ps && fast > slow && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.65,
				fmt.Sprintf("fast EMA %.4f reclaimed slow EMA %.4f while short", fast, slow))
		case pf <= ps && fast > slow && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.65,
				fmt.Sprintf("fast EMA %.4f crossed above slow EMA %.4f", fast, slow))
		case pf >= ps && fast < slow && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.65,
				fmt.Sprintf("fast EMA %.4f crossed below slow EMA %.4f", fast, slow))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("no crossover (fast=%.4f slow=%.4f)", fast, slow))
		}
	})

	return sig
}

package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// SMACross buys when the fast simple moving average crosses above the slow
// one and sells on the opposite cross.
type SMACross struct {
	fastPeriod int
	slowPeriod int
	state      *table[smaCrossState]
}

type smaCrossState struct {
	closes   *buffer.Rolling[float64]
	prevFast optional.Option[float64]
	prevSlow optional.Option[float64]
}

// NewSMACross creates an SMA crossover strategy with the given periods.
func NewSMACross(fastPeriod, slowPeriod int) *SMACross {
	if fastPeriod <= 0 {
		fastPeriod = 10
	}

	if slowPeriod <= fastPeriod {
		slowPeriod = fastPeriod * 3
	}

	return &SMACross{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		state:      newTable[smaCrossState](),
	}
}

// Name returns the name of the strategy.
func (s *SMACross) Name() string {
	return fmt.Sprintf("sma_cross_%d_%d", s.fastPeriod, s.slowPeriod)
}

// Classification returns the intended holding horizon.
func (s *SMACross) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *SMACross) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *SMACross) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *smaCrossState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.slowPeriod)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.slowPeriod)
			return
		}

		snapshot := st.closes.Values()
		fast, _ := indicator.SMA(snapshot, s.fastPeriod)
		slow, _ := indicator.SMA(snapshot, s.slowPeriod)

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

		// Exits take precedence over opens so a cross against a held
		// position closes it instead of reversing in one bar.
		switch {
		case pf >= ps && fast < slow && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("fast SMA %.4f lost slow SMA %.4f while long", fast, slow))
		case pf <= ps && fast > slow && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("fast SMA %.4f reclaimed slow SMA %.4f while short", fast, slow))
		case pf <= ps && fast > slow && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("fast SMA %.4f crossed above slow SMA %.4f", fast, slow))
		case pf >= ps && fast < slow && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("fast SMA %.4f crossed below slow SMA %.4f", fast, slow))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("no crossover (fast=%.4f slow=%.4f)", fast, slow))
		}
	})

	return sig
}

package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Cointegration is a single-symbol stand-in for a pairs spread: it treats
// the ratio of close to its own slow moving average as the spread and trades
// the z-score of that spread reverting to one. A true two-legged pair needs
// portfolio data this engine does not carry.
type Cointegration struct {
	period    int
	threshold float64
	state     *table[cointegrationState]
}

type cointegrationState struct {
	closes  *buffer.Rolling[float64]
	spreads *buffer.Rolling[float64]
}

// NewCointegration creates a spread reversion strategy.
func NewCointegration(period int, threshold float64) *Cointegration {
	if period <= 0 {
		period = 30
	}

	if threshold <= 0 {
		threshold = 2.0
	}

	return &Cointegration{
		period:    period,
		threshold: threshold,
		state:     newTable[cointegrationState](),
	}
}

// Name returns the name of the strategy.
func (s *Cointegration) Name() string {
	return fmt.Sprintf("cointegration_proxy_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Cointegration) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *Cointegration) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Cointegration) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	// Spread history fills only after the close window is full.
	need := s.period * 2

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *cointegrationState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.period)
			st.spreads = buffer.NewRolling[float64](s.period)
		}

		st.closes.Push(bar.Close)

		have := st.closes.Len()
		if st.closes.Full() {
			mean := indicator.Mean(st.closes.Values())
			if mean != 0 {
				st.spreads.Push(bar.Close / mean)
			}

			have = s.period + st.spreads.Len()
		}

		if !st.spreads.Full() {
			sig = warmingUp(s.Name(), bar, have, need)
			return
		}

		spreads := st.spreads.Values()
		z, ok := indicator.ZScore(spreads[len(spreads)-1], spreads)
		if !ok {
			sig = neutral(s.Name(), bar, "zero variance in spread window")
			return
		}

		pos := book.Position(bar.Symbol)

		switch {
		case z >= 0 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("spread reverted (z-score %.2f)", z))
		case z <= 0 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("spread reverted (z-score %.2f)", z))
		case z < -s.threshold && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, confidenceFromZ(-z, s.threshold),
				fmt.Sprintf("spread z-score %.2f below -%.2f", z, s.threshold))
		case z > s.threshold && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, confidenceFromZ(z, s.threshold),
				fmt.Sprintf("spread z-score %.2f above %.2f", z, s.threshold))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("spread z-score %.2f within threshold", z))
		}
	})

	return sig
}

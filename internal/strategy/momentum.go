package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Momentum trades in the direction of a statistically large move: it opens
// when the latest close sits more than threshold standard deviations away
// from the rolling mean and exits when the z-score decays back through zero.
type Momentum struct {
	period    int
	threshold float64
	state     *table[momentumState]
}

type momentumState struct {
	closes *buffer.Rolling[float64]
}

// NewMomentum creates a z-score momentum strategy.
func NewMomentum(period int, threshold float64) *Momentum {
	if period <= 0 {
		period = 20
	}

	if threshold <= 0 {
		threshold = 1.5
	}

	return &Momentum{
		period:    period,
		threshold: threshold,
		state:     newTable[momentumState](),
	}
}

// Name returns the name of the strategy.
func (s *Momentum) Name() string {
	return fmt.Sprintf("momentum_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Momentum) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *Momentum) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Momentum) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *momentumState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.period)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.period)
			return
		}

		z, ok := indicator.ZScore(bar.Close, st.closes.Values())
		if !ok {
			sig = neutral(s.Name(), bar, "zero variance in lookback window")
			return
		}

		pos := book.Position(bar.Symbol)

		switch {
		case z < 0 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("momentum faded (z-score %.2f)", z))
		case z > 0 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("momentum faded (z-score %.2f)", z))
		case z > s.threshold && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, confidenceFromZ(z, s.threshold),
				fmt.Sprintf("z-score %.2f above %.2f", z, s.threshold))
		case z < -s.threshold && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, confidenceFromZ(-z, s.threshold),
				fmt.Sprintf("z-score %.2f below -%.2f", z, s.threshold))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("z-score %.2f within threshold", z))
		}
	})

	return sig
}

// confidenceFromZ maps how far past the trigger a z-score is onto (0.5, 1].
func confidenceFromZ(z, threshold float64) float64 {
	excess := (z - threshold) / threshold

	return clampConfidence(0.5 + excess/2)
}

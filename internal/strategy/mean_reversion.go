package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// MeanReversion is the Bollinger-style counterpart of Momentum: it fades
// statistically large moves, buying below the lower band and selling above
// the upper band, then exits once price has reverted through the mean.
type MeanReversion struct {
	period    int
	threshold float64
	state     *table[meanReversionState]
}

type meanReversionState struct {
	closes *buffer.Rolling[float64]
}

// NewMeanReversion creates a Bollinger z-score reversion strategy.
func NewMeanReversion(period int, threshold float64) *MeanReversion {
	if period <= 0 {
		period = 20
	}

	if threshold <= 0 {
		threshold = 2.0
	}

	return &MeanReversion{
		period:    period,
		threshold: threshold,
		state:     newTable[meanReversionState](),
	}
}

// Name returns the name of the strategy.
func (s *MeanReversion) Name() string {
	return fmt.Sprintf("mean_reversion_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *MeanReversion) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *MeanReversion) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *MeanReversion) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *meanReversionState) {
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
		case z >= 0 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("reverted to the mean (z-score %.2f)", z))
		case z <= 0 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("reverted to the mean (z-score %.2f)", z))
		case z < -s.threshold && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, confidenceFromZ(-z, s.threshold),
				fmt.Sprintf("close %.4f is %.2f standard deviations below the mean", bar.Close, -z))
		case z > s.threshold && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, confidenceFromZ(z, s.threshold),
				fmt.Sprintf("close %.4f is %.2f standard deviations above the mean", bar.Close, z))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("z-score %.2f within bands", z))
		}
	})

	return sig
}

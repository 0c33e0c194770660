package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// cciScale is Lambert's constant; it places roughly 70-80% of CCI values
// inside the -100..+100 channel.
const cciScale = 0.015

// CCI is the Commodity Channel Index strategy. It measures how far the
// typical price has drifted from its rolling mean, scaled by mean deviation,
// and trades crossings of the +-100 channel. A window with zero mean
// deviation (constant typical price) has no defined CCI and yields Neutral.
type CCI struct {
	period int
	state  *table[cciState]
}

type cciState struct {
	typical *buffer.Rolling[float64]
	prevCCI optional.Option[float64]
}

// NewCCI creates a CCI channel strategy.
func NewCCI(period int) *CCI {
	if period <= 0 {
		period = 20
	}

	return &CCI{
		period: period,
		state:  newTable[cciState](),
	}
}

// Name returns the name of the strategy.
func (s *CCI) Name() string {
	return fmt.Sprintf("cci_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *CCI) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *CCI) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *CCI) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *cciState) {
		if st.typical == nil {
			st.typical = buffer.NewRolling[float64](s.period)
		}

		st.typical.Push(bar.TypicalPrice())

		if !st.typical.Full() {
			sig = warmingUp(s.Name(), bar, st.typical.Len(), s.period)
			return
		}

		snapshot := st.typical.Values()
		mean := indicator.Mean(snapshot)
		meanDev := indicator.MeanDeviation(snapshot)

		if meanDev == 0 {
			// Constant typical price. Dividing would produce NaN.
			st.prevCCI = optional.None[float64]()
			sig = neutral(s.Name(), bar, "mean deviation is zero")

			return
		}

		cci := (bar.TypicalPrice() - mean) / (cciScale * meanDev)

		prevCCI := st.prevCCI
		st.prevCCI = optional.Some(cci)

		if prevCCI.IsNone() {
			sig = neutral(s.Name(), bar, fmt.Sprintf("awaiting crossover baseline (cci=%.2f)", cci))
			return
		}

		prev := prevCCI.Unwrap()
		pos := book.Position(bar.Symbol)

		switch {
		case crossedBelow(prev, cci, 0) && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("CCI %.2f crossed below zero while long", cci))
		case crossedAbove(prev, cci, 0) && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("CCI %.2f crossed above zero while short", cci))
		case crossedAbove(prev, cci, -100) && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("CCI %.2f crossed above -100", cci))
		case crossedBelow(prev, cci, 100) && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("CCI %.2f crossed below +100", cci))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("CCI %.2f inside channel", cci))
		}
	})

	return sig
}

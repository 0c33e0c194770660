package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Keltner trades breakouts of the Keltner channel: an EMA midline with bands
// at multiplier times the average true range. Unlike Bollinger bands the
// width follows realized range rather than close-to-close deviation.
type Keltner struct {
	period     int
	multiplier float64
	state      *table[keltnerState]
}

type keltnerState struct {
	bars   *buffer.Rolling[types.Bar]
	closes *buffer.Rolling[float64]
}

// NewKeltner creates a Keltner channel strategy.
func NewKeltner(period int, multiplier float64) *Keltner {
	if period <= 0 {
		period = 20
	}

	if multiplier <= 0 {
		multiplier = 2.0
	}

	return &Keltner{
		period:     period,
		multiplier: multiplier,
		state:      newTable[keltnerState](),
	}
}

// Name returns the name of the strategy.
func (s *Keltner) Name() string {
	return fmt.Sprintf("keltner_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Keltner) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *Keltner) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Keltner) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	// ATR needs one extra bar for the first true range.
	need := s.period + 1

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *keltnerState) {
		if st.bars == nil {
			st.bars = buffer.NewRolling[types.Bar](need)
			st.closes = buffer.NewRolling[float64](s.period)
		}

		st.bars.Push(bar)
		st.closes.Push(bar.Close)

		if !st.bars.Full() {
			sig = warmingUp(s.Name(), bar, st.bars.Len(), need)
			return
		}

		atr, ok := indicator.ATR(st.bars.Values(), s.period)
		if !ok {
			sig = neutral(s.Name(), bar, "average true range unavailable")
			return
		}

		mid, _ := indicator.EMA(st.closes.Values(), s.period)
		upper := mid + s.multiplier*atr
		lower := mid - s.multiplier*atr
		pos := book.Position(bar.Symbol)

		switch {
		case bar.Close < mid && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("close %.4f fell back under midline %.4f", bar.Close, mid))
		case bar.Close > mid && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("close %.4f rose back over midline %.4f", bar.Close, mid))
		case bar.Close > upper && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.65,
				fmt.Sprintf("close %.4f above Keltner upper band %.4f", bar.Close, upper))
		case bar.Close < lower && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.65,
				fmt.Sprintf("close %.4f below Keltner lower band %.4f", bar.Close, lower))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("inside channel (%.4f .. %.4f)", lower, upper))
		}
	})

	return sig
}

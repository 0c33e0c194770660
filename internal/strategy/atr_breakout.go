package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// ATRBreakout opens when a single bar moves more than multiplier average
// true ranges from the previous close. The idea is that a move that large is
// not noise at the current volatility level.
type ATRBreakout struct {
	period     int
	multiplier float64
	state      *table[atrBreakoutState]
}

type atrBreakoutState struct {
	bars      *buffer.Rolling[types.Bar]
	prevClose optional.Option[float64]
}

// NewATRBreakout creates an ATR breakout strategy.
func NewATRBreakout(period int, multiplier float64) *ATRBreakout {
	if period <= 0 {
		period = 14
	}

	if multiplier <= 0 {
		multiplier = 1.5
	}

	return &ATRBreakout{
		period:     period,
		multiplier: multiplier,
		state:      newTable[atrBreakoutState](),
	}
}

// Name returns the name of the strategy.
func (s *ATRBreakout) Name() string {
	return fmt.Sprintf("atr_breakout_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *ATRBreakout) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state.
func (s *ATRBreakout) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *ATRBreakout) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	need := s.period + 1

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *atrBreakoutState) {
		if st.bars == nil {
			st.bars = buffer.NewRolling[types.Bar](need)
		}

		st.bars.Push(bar)

		prevClose := st.prevClose
		st.prevClose = optional.Some(bar.Close)

		if !st.bars.Full() {
			sig = warmingUp(s.Name(), bar, st.bars.Len(), need)
			return
		}

		atr, ok := indicator.ATR(st.bars.Values(), s.period)
		if !ok || prevClose.IsNone() {
			sig = neutral(s.Name(), bar, "average true range unavailable")
			return
		}

		if atr == 0 {
			sig = neutral(s.Name(), bar, "zero average true range")
			return
		}

		move := bar.Close - prevClose.Unwrap()
		trigger := s.multiplier * atr
		pos := book.Position(bar.Symbol)

		switch {
		case move < -trigger && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("adverse %.4f move against long position", move))
		case move > trigger && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("adverse +%.4f move against short position", move))
		case move > trigger && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, clampConfidence(0.5+(move/trigger-1)/4),
				fmt.Sprintf("close moved +%.4f, over %.1fx ATR %.4f", move, s.multiplier, atr))
		case move < -trigger && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, clampConfidence(0.5+(-move/trigger-1)/4),
				fmt.Sprintf("close moved %.4f, over %.1fx ATR %.4f", move, s.multiplier, atr))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("move %.4f within %.1fx ATR %.4f", move, s.multiplier, atr))
		}
	})

	return sig
}

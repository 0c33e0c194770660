package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
	rsiMidline    = 50.0
)

// RSIReversal buys the exit from oversold territory and sells the exit from
// overbought territory. Entries trigger on the RSI crossing back through the
// 30/70 levels rather than on touching them, exits on the 50 midline.
type RSIReversal struct {
	period int
	state  *table[rsiState]
}

type rsiState struct {
	closes  *buffer.Rolling[float64]
	prevRSI optional.Option[float64]
}

// NewRSI creates an RSI reversal strategy.
func NewRSI(period int) *RSIReversal {
	if period <= 0 {
		period = 14
	}

	return &RSIReversal{
		period: period,
		state:  newTable[rsiState](),
	}
}

// Name returns the name of the strategy.
func (s *RSIReversal) Name() string {
	return fmt.Sprintf("rsi_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *RSIReversal) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *RSIReversal) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *RSIReversal) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	// RSI needs period deltas, so period+1 closes.
	need := s.period + 1

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *rsiState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](need)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), need)
			return
		}

		rsi, ok := indicator.RSI(st.closes.Values(), s.period)
		if !ok {
			sig = neutral(s.Name(), bar, "relative strength unavailable")
			return
		}

		prevRSI := st.prevRSI
		st.prevRSI = optional.Some(rsi)

		if prevRSI.IsNone() {
			sig = neutral(s.Name(), bar, fmt.Sprintf("awaiting crossover baseline (rsi=%.2f)", rsi))
			return
		}

		prev := prevRSI.Unwrap()
		pos := book.Position(bar.Symbol)

		switch {
		case crossedBelow(prev, rsi, rsiMidline) && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("RSI %.2f crossed below midline while long", rsi))
		case crossedAbove(prev, rsi, rsiMidline) && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("RSI %.2f crossed above midline while short", rsi))
		case crossedAbove(prev, rsi, rsiOversold) && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("RSI %.2f recovered from oversold", rsi))
		case crossedBelow(prev, rsi, rsiOverbought) && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("RSI %.2f retreated from overbought", rsi))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("RSI %.2f without trigger", rsi))
		}
	})

	return sig
}

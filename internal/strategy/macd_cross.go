package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// MACDCross signals when the MACD line crosses its signal line. The MACD
// line is the fast EMA minus the slow EMA of closes; the signal line is an
// EMA of the MACD line itself.
type MACDCross struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	state        *table[macdState]
}

type macdState struct {
	closes   *buffer.Rolling[float64]
	macdLine *buffer.Rolling[float64]
	prevDiff optional.Option[float64]
}

// NewMACDCross creates a MACD crossover strategy. Zero arguments select the
// conventional 12/26/9 configuration.
func NewMACDCross(fastPeriod, slowPeriod, signalPeriod int) *MACDCross {
	if fastPeriod <= 0 {
		fastPeriod = 12
	}

	if slowPeriod <= fastPeriod {
		slowPeriod = 26
		if slowPeriod <= fastPeriod {
			slowPeriod = fastPeriod * 2
		}
	}

	if signalPeriod <= 0 {
		signalPeriod = 9
	}

	return &MACDCross{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
		state:        newTable[macdState](),
	}
}

// Name returns the name of the strategy.
func (s *MACDCross) Name() string {
	return fmt.Sprintf("macd_cross_%d_%d_%d", s.fastPeriod, s.slowPeriod, s.signalPeriod)
}

// Classification returns the intended holding horizon.
func (s *MACDCross) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *MACDCross) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *MACDCross) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	need := s.slowPeriod + s.signalPeriod

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *macdState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.slowPeriod)
			st.macdLine = buffer.NewRolling[float64](s.signalPeriod)
		}

		st.closes.Push(bar.Close)

		have := st.closes.Len()
		if st.closes.Full() {
			snapshot := st.closes.Values()
			fast, _ := indicator.EMA(snapshot, s.fastPeriod)
			slow, _ := indicator.EMA(snapshot, s.slowPeriod)
			st.macdLine.Push(fast - slow)
			have = s.slowPeriod + st.macdLine.Len()
		}

		if !st.macdLine.Full() {
			sig = warmingUp(s.Name(), bar, have, need)
			return
		}

		macdValues := st.macdLine.Values()
		macd := macdValues[len(macdValues)-1]
		signalLine, _ := indicator.EMA(macdValues, s.signalPeriod)
		diff := macd - signalLine

		prevDiff := st.prevDiff
		st.prevDiff = optional.Some(diff)

		if prevDiff.IsNone() {
			sig = neutral(s.Name(), bar, fmt.Sprintf("awaiting crossover baseline (macd=%.4f signal=%.4f)", macd, signalLine))
			return
		}

		pos := book.Position(bar.Symbol)

		switch {
		case crossedBelow(prevDiff.Unwrap(), diff, 0) && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.65,
				fmt.Sprintf("MACD %.4f crossed below signal %.4f while long", macd, signalLine))
		case crossedAbove(prevDiff.Unwrap(), diff, 0) && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.65,
				fmt.Sprintf("MACD %.4f crossed above signal %.4f while short", macd, signalLine))
		case crossedAbove(prevDiff.Unwrap(), diff, 0) && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.65,
				fmt.Sprintf("MACD %.4f crossed above signal %.4f", macd, signalLine))
		case crossedBelow(prevDiff.Unwrap(), diff, 0) && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.65,
				fmt.Sprintf("MACD %.4f crossed below signal %.4f", macd, signalLine))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("no crossover (macd=%.4f signal=%.4f)", macd, signalLine))
		}
	})

	return sig
}

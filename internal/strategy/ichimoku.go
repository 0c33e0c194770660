package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Ichimoku trades the Tenkan/Kijun crossover. Both lines are channel
// midpoints: the average of the highest high and lowest low over their
// respective lookbacks. The shifted-cloud components are intentionally left
// out; the conversion/base crossover is the actionable part for streaming
// evaluation.
type Ichimoku struct {
	tenkanPeriod int
	kijunPeriod  int
	state        *table[ichimokuState]
}

type ichimokuState struct {
	highs      *buffer.Rolling[float64]
	lows       *buffer.Rolling[float64]
	prevTenkan optional.Option[float64]
	prevKijun  optional.Option[float64]
}

// NewIchimoku creates a Tenkan/Kijun crossover strategy. Zero arguments
// select the conventional 9/26 configuration.
func NewIchimoku(tenkanPeriod, kijunPeriod int) *Ichimoku {
	if tenkanPeriod <= 0 {
		tenkanPeriod = 9
	}

	if kijunPeriod <= tenkanPeriod {
		kijunPeriod = 26
		if kijunPeriod <= tenkanPeriod {
			kijunPeriod = tenkanPeriod * 3
		}
	}

	return &Ichimoku{
		tenkanPeriod: tenkanPeriod,
		kijunPeriod:  kijunPeriod,
		state:        newTable[ichimokuState](),
	}
}

// Name returns the name of the strategy.
func (s *Ichimoku) Name() string {
	return fmt.Sprintf("ichimoku_%d_%d", s.tenkanPeriod, s.kijunPeriod)
}

// Classification returns the intended holding horizon.
func (s *Ichimoku) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *Ichimoku) Reset() {
	s.state.reset()
}

func channelMidpoint(highs, lows []float64, period int) float64 {
	hi, _ := indicator.Highest(highs[len(highs)-period:])
	lo, _ := indicator.Lowest(lows[len(lows)-period:])

	return (hi + lo) / 2
}

// Evaluate implements Strategy.
func (s *Ichimoku) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *ichimokuState) {
		if st.highs == nil {
			st.highs = buffer.NewRolling[float64](s.kijunPeriod)
			st.lows = buffer.NewRolling[float64](s.kijunPeriod)
		}

		st.highs.Push(bar.High)
		st.lows.Push(bar.Low)

		if !st.highs.Full() {
			sig = warmingUp(s.Name(), bar, st.highs.Len(), s.kijunPeriod)
			return
		}

		highs := st.highs.Values()
		lows := st.lows.Values()
		tenkan := channelMidpoint(highs, lows, s.tenkanPeriod)
		kijun := channelMidpoint(highs, lows, s.kijunPeriod)

		prevTenkan := st.prevTenkan
		prevKijun := st.prevKijun
		st.prevTenkan = optional.Some(tenkan)
		st.prevKijun = optional.Some(kijun)

		if prevTenkan.IsNone() || prevKijun.IsNone() {
			sig = neutral(s.Name(), bar, fmt.Sprintf("awaiting crossover baseline (tenkan=%.4f kijun=%.4f)", tenkan, kijun))
			return
		}

		pt := prevTenkan.Unwrap()
		pk := prevKijun.Unwrap()
		pos := book.Position(bar.Symbol)

		switch {
		case pt >= pk && tenkan < kijun && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("tenkan %.4f lost kijun %.4f while long", tenkan, kijun))
		case pt <= pk && tenkan > kijun && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("tenkan %.4f reclaimed kijun %.4f while short", tenkan, kijun))
		case pt <= pk && tenkan > kijun && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("tenkan %.4f crossed above kijun %.4f", tenkan, kijun))
		case pt >= pk && tenkan < kijun && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("tenkan %.4f crossed below kijun %.4f", tenkan, kijun))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("no crossover (tenkan=%.4f kijun=%.4f)", tenkan, kijun))
		}
	})

	return sig
}

package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Quality is a price-only stand-in for a quality factor screen: a symbol in
// a steady uptrend with low relative volatility is held long, and the
// position is dropped when the trend breaks or volatility expands. The
// coefficient of variation over the window proxies earnings stability.
type Quality struct {
	period    int
	threshold float64
	state     *table[qualityState]
}

type qualityState struct {
	closes *buffer.Rolling[float64]
}

// NewQuality creates a low-volatility trend strategy. threshold is the
// maximum coefficient of variation, defaulting to 0.05.
func NewQuality(period int, threshold float64) *Quality {
	if period <= 0 {
		period = 60
	}

	if threshold <= 0 {
		threshold = 0.05
	}

	return &Quality{
		period:    period,
		threshold: threshold,
		state:     newTable[qualityState](),
	}
}

// Name returns the name of the strategy.
func (s *Quality) Name() string {
	return fmt.Sprintf("quality_proxy_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Quality) Classification() types.Classification {
	return types.ClassificationLongTerm
}

// Reset clears all per-symbol state.
func (s *Quality) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Quality) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *qualityState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.period)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.period)
			return
		}

		snapshot := st.closes.Values()
		mean := indicator.Mean(snapshot)

		if mean <= 0 {
			sig = neutral(s.Name(), bar, "non-positive mean close")
			return
		}

		variation := indicator.StdDev(snapshot) / mean
		uptrend := bar.Close > mean
		pos := book.Position(bar.Symbol)

		switch {
		case variation <= s.threshold && uptrend && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, clampConfidence(0.7-variation),
				fmt.Sprintf("steady uptrend, variation %.3f under %.3f", variation, s.threshold))
		case (variation > s.threshold*2 || !uptrend) && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("quality deteriorated (variation %.3f, close %.4f vs mean %.4f)", variation, bar.Close, mean))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("variation %.3f, close %.4f vs mean %.4f", variation, bar.Close, mean))
		}
	})

	return sig
}

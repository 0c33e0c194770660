package strategy

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Range filter smoothing weights for the short and long EMA of the absolute
// close-to-close change.
const (
	rangeFilterShortWeight = 0.4
	rangeFilterLongWeight  = 0.6
)

// RangeFilter follows a smoothed price filter that only moves when price
// escapes its smoothed range: the filter ratchets toward price by at most
// the smoothed range per bar, and consecutive filter rises or falls count
// as an upward or downward trend.
type RangeFilter struct {
	period     int
	multiplier float64
	state      *table[rangeFilterState]
}

type rangeFilterState struct {
	initialized bool
	prevSource  float64
	prevFilt    float64
	upward      float64
	downward    float64
	absChanges  *buffer.Rolling[float64]
}

// NewRangeFilter creates a range filter trend strategy.
func NewRangeFilter(period int, multiplier float64) *RangeFilter {
	if period <= 0 {
		period = 100
	}

	if multiplier <= 0 {
		multiplier = 3.0
	}

	return &RangeFilter{
		period:     period,
		multiplier: multiplier,
		state:      newTable[rangeFilterState](),
	}
}

// Name returns the name of the strategy.
func (s *RangeFilter) Name() string {
	return fmt.Sprintf("range_filter_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *RangeFilter) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *RangeFilter) Reset() {
	s.state.reset()
}

// clampFilter ratchets the filter toward the source by at most smrng.
func clampFilter(src, prevFilt, smrng float64) float64 {
	if src > prevFilt {
		if src-smrng < prevFilt {
			return prevFilt
		}

		return src - smrng
	}

	if src+smrng > prevFilt {
		return prevFilt
	}

	return src + smrng
}

// Evaluate implements Strategy.
func (s *RangeFilter) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *rangeFilterState) {
		src := bar.Close

		if st.absChanges == nil {
			st.absChanges = buffer.NewRolling[float64](2*s.period - 1)
		}

		if !st.initialized {
			st.initialized = true
			st.prevSource = src
			st.prevFilt = src
			sig = warmingUp(s.Name(), bar, 1, s.period)

			return
		}

		st.absChanges.Push(math.Abs(src - st.prevSource))

		if st.absChanges.Len() < s.period {
			st.prevSource = src
			st.prevFilt = src
			sig = warmingUp(s.Name(), bar, st.absChanges.Len()+1, s.period)

			return
		}

		// Smoothed range: blended short and long EMA of the absolute change.
		changes := st.absChanges.Values()
		shortEMA, _ := indicator.EMA(changes, s.period)
		longEMA, _ := indicator.EMA(changes, 2*s.period-1)
		smrng := (shortEMA*rangeFilterShortWeight + longEMA*rangeFilterLongWeight) * s.multiplier

		prevFilt := st.prevFilt
		filt := clampFilter(src, prevFilt, smrng)

		switch {
		case filt > prevFilt:
			st.upward++
			st.downward = 0
		case filt < prevFilt:
			st.upward = 0
			st.downward++
		}

		st.prevSource = src
		st.prevFilt = filt

		pos := book.Position(bar.Symbol)

		switch {
		case st.downward > 0 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.55,
				fmt.Sprintf("filter turned down (filt=%.4f < prev=%.4f) while long", filt, prevFilt))
		case st.upward > 0 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.55,
				fmt.Sprintf("filter turned up (filt=%.4f > prev=%.4f) while short", filt, prevFilt))
		case st.upward > 0 && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("upward trend (filt=%.4f > prev=%.4f)", filt, prevFilt))
		case st.downward > 0 && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("downward trend (filt=%.4f < prev=%.4f)", filt, prevFilt))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("no trend (filt=%.4f)", filt))
		}
	})

	return sig
}

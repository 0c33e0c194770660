package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Gap fades opening gaps: an open far above the previous close is sold, an
// open far below is bought, on the premise that most gaps at least partially
// fill. The gap is measured as a fraction of the previous close.
type Gap struct {
	threshold float64
	state     *table[gapState]
}

type gapState struct {
	prevClose optional.Option[float64]
}

// NewGap creates an open-gap reversal strategy. threshold is the minimum gap
// fraction, defaulting to 0.02.
func NewGap(threshold float64) *Gap {
	if threshold <= 0 {
		threshold = 0.02
	}

	return &Gap{
		threshold: threshold,
		state:     newTable[gapState](),
	}
}

// Name returns the name of the strategy.
func (s *Gap) Name() string {
	return "gap"
}

// Classification returns the intended holding horizon.
func (s *Gap) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state.
func (s *Gap) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Gap) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *gapState) {
		prevClose := st.prevClose
		st.prevClose = optional.Some(bar.Close)

		if prevClose.IsNone() {
			sig = warmingUp(s.Name(), bar, 1, 2)
			return
		}

		prev := prevClose.Unwrap()
		if prev <= 0 {
			sig = neutral(s.Name(), bar, "non-positive previous close")
			return
		}

		gap := (bar.Open - prev) / prev
		pos := book.Position(bar.Symbol)

		switch {
		case gap > s.threshold && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("taking profit into %.2f%% gap up", gap*100))
		case gap < -s.threshold && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("covering into %.2f%% gap down", gap*100))
		case gap > s.threshold && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, clampConfidence(0.5+gap),
				fmt.Sprintf("fading %.2f%% gap up from %.4f", gap*100, prev))
		case gap < -s.threshold && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, clampConfidence(0.5-gap),
				fmt.Sprintf("fading %.2f%% gap down from %.4f", gap*100, prev))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("gap %.2f%% within threshold", gap*100))
		}
	})

	return sig
}

package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Percentile is a rank channel: it locates the latest close within the
// rolling window by percentile rank and trades pushes into the extremes of
// the channel. Rank above the upper bound joins the advance, rank below the
// lower bound joins the decline.
type Percentile struct {
	period int
	upper  float64
	lower  float64
	state  *table[percentileState]
}

type percentileState struct {
	closes *buffer.Rolling[float64]
}

// NewPercentile creates a percentile rank channel strategy. threshold is the
// upper trigger rank in percent; the lower trigger mirrors it around 50.
func NewPercentile(period int, threshold float64) *Percentile {
	if period <= 0 {
		period = 50
	}

	if threshold <= 50 || threshold > 100 {
		threshold = 90
	}

	return &Percentile{
		period: period,
		upper:  threshold,
		lower:  100 - threshold,
		state:  newTable[percentileState](),
	}
}

// Name returns the name of the strategy.
func (s *Percentile) Name() string {
	return fmt.Sprintf("percentile_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Percentile) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *Percentile) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Percentile) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *percentileState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.period)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.period)
			return
		}

		// PercentileRank yields a fraction; the channel bounds are percents.
		frac, _ := indicator.PercentileRank(st.closes.Values(), bar.Close)
		rank := frac * 100
		pos := book.Position(bar.Symbol)

		switch {
		case rank < 50 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("rank %.1f%% fell under the median while long", rank))
		case rank > 50 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("rank %.1f%% rose over the median while short", rank))
		case rank >= s.upper && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.55,
				fmt.Sprintf("close ranks at %.1f%% of the %d-bar window", rank, s.period))
		case rank <= s.lower && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.55,
				fmt.Sprintf("close ranks at %.1f%% of the %d-bar window", rank, s.period))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("rank %.1f%% inside channel", rank))
		}
	})

	return sig
}

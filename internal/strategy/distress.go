package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Distress is a price-only stand-in for a financial distress screen: a deep
// drawdown from the rolling high combined with elevated volatility marks the
// symbol as distressed and shorts it; recovery to half the trigger drawdown
// covers. Balance sheet inputs would refine this but are out of reach of a
// bar feed.
type Distress struct {
	period    int
	threshold float64
	state     *table[distressState]
}

type distressState struct {
	closes *buffer.Rolling[float64]
	highs  *buffer.Rolling[float64]
}

// NewDistress creates a drawdown distress strategy. threshold is the
// drawdown fraction that marks distress, defaulting to 0.2.
func NewDistress(period int, threshold float64) *Distress {
	if period <= 0 {
		period = 60
	}

	if threshold <= 0 || threshold >= 1 {
		threshold = 0.2
	}

	return &Distress{
		period:    period,
		threshold: threshold,
		state:     newTable[distressState](),
	}
}

// Name returns the name of the strategy.
func (s *Distress) Name() string {
	return fmt.Sprintf("distress_proxy_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Distress) Classification() types.Classification {
	return types.ClassificationLongTerm
}

// Reset clears all per-symbol state.
func (s *Distress) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Distress) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *distressState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.period)
			st.highs = buffer.NewRolling[float64](s.period)
		}

		st.closes.Push(bar.Close)
		st.highs.Push(bar.High)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.period)
			return
		}

		peak, _ := indicator.Highest(st.highs.Values())
		if peak <= 0 {
			sig = neutral(s.Name(), bar, "non-positive rolling peak")
			return
		}

		drawdown := (peak - bar.Close) / peak
		z, volOK := indicator.ZScore(bar.Close, st.closes.Values())
		pos := book.Position(bar.Symbol)

		switch {
		case drawdown > s.threshold && volOK && z < -1 && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, clampConfidence(0.5+drawdown),
				fmt.Sprintf("drawdown %.1f%% from peak %.4f with z-score %.2f", drawdown*100, peak, z))
		case drawdown < s.threshold/2 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("recovered to %.1f%% drawdown", drawdown*100))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("drawdown %.1f%% from peak %.4f", drawdown*100, peak))
		}
	})

	return sig
}

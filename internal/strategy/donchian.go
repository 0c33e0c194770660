package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Donchian is the channel breakout strategy: a bar whose high exceeds the
// highest high of the prior period opens a long, a bar whose low undercuts
// the lowest low of the prior period opens a short. The current bar is
// compared against the channel before it joins the window.
type Donchian struct {
	period int
	state  *table[donchianState]
}

type donchianState struct {
	highs *buffer.Rolling[float64]
	lows  *buffer.Rolling[float64]
}

// NewDonchian creates a Donchian channel breakout strategy.
func NewDonchian(period int) *Donchian {
	if period <= 0 {
		period = 20
	}

	return &Donchian{
		period: period,
		state:  newTable[donchianState](),
	}
}

// Name returns the name of the strategy.
func (s *Donchian) Name() string {
	return fmt.Sprintf("donchian_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *Donchian) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *Donchian) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Donchian) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *donchianState) {
		if st.highs == nil {
			st.highs = buffer.NewRolling[float64](s.period)
			st.lows = buffer.NewRolling[float64](s.period)
		}

		if !st.highs.Full() {
			st.highs.Push(bar.High)
			st.lows.Push(bar.Low)
			sig = warmingUp(s.Name(), bar, st.highs.Len(), s.period)

			return
		}

		// The window is full, so the extrema always exist.
		upper, _ := indicator.Highest(st.highs.Values())
		lower, _ := indicator.Lowest(st.lows.Values())

		st.highs.Push(bar.High)
		st.lows.Push(bar.Low)

		pos := book.Position(bar.Symbol)

		switch {
		case bar.Low < lower && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.7,
				fmt.Sprintf("low %.4f broke below channel bottom %.4f while long", bar.Low, lower))
		case bar.High > upper && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.7,
				fmt.Sprintf("high %.4f broke above channel top %.4f while short", bar.High, upper))
		case bar.High > upper && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.8,
				fmt.Sprintf("high %.4f broke above %d-bar channel top %.4f", bar.High, s.period, upper))
		case bar.Low < lower && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.8,
				fmt.Sprintf("low %.4f broke below %d-bar channel bottom %.4f", bar.Low, s.period, lower))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("inside channel (%.4f .. %.4f)", lower, upper))
		}
	})

	return sig
}

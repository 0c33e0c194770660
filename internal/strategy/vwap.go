package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// VWAP trades deviations from the rolling volume-weighted average price.
// Price stretched below the lower band is bought back toward VWAP, price
// stretched above the upper band is sold. Band width is multiplier standard
// deviations of the close.
type VWAP struct {
	period     int
	multiplier float64
	state      *table[vwapState]
}

type vwapState struct {
	priceVolume *buffer.Rolling[float64]
	volume      *buffer.Rolling[float64]
	closes      *buffer.Rolling[float64]
}

// NewVWAP creates a VWAP deviation band strategy.
func NewVWAP(period int, multiplier float64) *VWAP {
	if period <= 0 {
		period = 20
	}

	if multiplier <= 0 {
		multiplier = 2.0
	}

	return &VWAP{
		period:     period,
		multiplier: multiplier,
		state:      newTable[vwapState](),
	}
}

// Name returns the name of the strategy.
func (s *VWAP) Name() string {
	return fmt.Sprintf("vwap_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *VWAP) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state.
func (s *VWAP) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *VWAP) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *vwapState) {
		if st.priceVolume == nil {
			st.priceVolume = buffer.NewRolling[float64](s.period)
			st.volume = buffer.NewRolling[float64](s.period)
			st.closes = buffer.NewRolling[float64](s.period)
		}

		vol := float64(bar.Volume)
		st.priceVolume.Push(bar.TypicalPrice() * vol)
		st.volume.Push(vol)
		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.period)
			return
		}

		var sumPV, sumVol float64
		for _, pv := range st.priceVolume.Values() {
			sumPV += pv
		}

		for _, v := range st.volume.Values() {
			sumVol += v
		}

		if sumVol == 0 {
			sig = neutral(s.Name(), bar, "no volume in lookback window")
			return
		}

		vwap := sumPV / sumVol
		band := s.multiplier * indicator.StdDev(st.closes.Values())
		pos := book.Position(bar.Symbol)

		switch {
		case bar.Close >= vwap && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("close %.4f reverted to VWAP %.4f", bar.Close, vwap))
		case bar.Close <= vwap && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("close %.4f reverted to VWAP %.4f", bar.Close, vwap))
		case band > 0 && bar.Close < vwap-band && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("close %.4f below VWAP band %.4f", bar.Close, vwap-band))
		case band > 0 && bar.Close > vwap+band && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("close %.4f above VWAP band %.4f", bar.Close, vwap+band))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("close %.4f inside VWAP bands (vwap=%.4f)", bar.Close, vwap))
		}
	})

	return sig
}

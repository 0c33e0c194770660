package strategy

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Trend strength component weights. The composite blends the normalized
// short/long MA spread, the short MA momentum, and price position relative
// to both averages, then scales into -100..+100.
const (
	trendWeightMADiff     = 0.4
	trendWeightMomentum   = 0.3
	trendWeightPriceShort = 0.15
	trendWeightPriceLong  = 0.15
	trendScale            = 5.0
)

// TrendStrength scores the trend with a weighted composite of moving
// average relationships and trades when the score clears the threshold.
type TrendStrength struct {
	shortPeriod int
	longPeriod  int
	threshold   float64
	state       *table[trendStrengthState]
}

type trendStrengthState struct {
	closes      *buffer.Rolling[float64]
	prevShortMA optional.Option[float64]
}

// NewTrendStrength creates a composite trend strength strategy.
func NewTrendStrength(shortPeriod, longPeriod int, threshold float64) *TrendStrength {
	if shortPeriod <= 0 {
		shortPeriod = 10
	}

	if longPeriod <= shortPeriod {
		longPeriod = shortPeriod * 3
	}

	if threshold <= 0 || threshold >= 100 {
		threshold = 50
	}

	return &TrendStrength{
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		threshold:   threshold,
		state:       newTable[trendStrengthState](),
	}
}

// Name returns the name of the strategy.
func (s *TrendStrength) Name() string {
	return fmt.Sprintf("trend_strength_%d_%d", s.shortPeriod, s.longPeriod)
}

// Classification returns the intended holding horizon.
func (s *TrendStrength) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *TrendStrength) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *TrendStrength) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *trendStrengthState) {
		if st.closes == nil {
			st.closes = buffer.NewRolling[float64](s.longPeriod)
		}

		st.closes.Push(bar.Close)

		if !st.closes.Full() {
			sig = warmingUp(s.Name(), bar, st.closes.Len(), s.longPeriod)
			return
		}

		snapshot := st.closes.Values()
		shortMA, _ := indicator.SMA(snapshot, s.shortPeriod)
		longMA, _ := indicator.SMA(snapshot, s.longPeriod)

		prevShortMA := st.prevShortMA
		st.prevShortMA = optional.Some(shortMA)

		if longMA == 0 || shortMA == 0 {
			sig = neutral(s.Name(), bar, "zero moving average")
			return
		}

		maDiff := (shortMA - longMA) / longMA * 100

		var momentum float64
		if prevShortMA.IsSome() && prevShortMA.Unwrap() != 0 {
			momentum = (shortMA - prevShortMA.Unwrap()) / prevShortMA.Unwrap() * 100
		}

		priceToShortMA := (bar.Close - shortMA) / shortMA * 100
		priceToLongMA := (bar.Close - longMA) / longMA * 100

		strength := maDiff*trendWeightMADiff +
			momentum*trendWeightMomentum +
			priceToShortMA*trendWeightPriceShort +
			priceToLongMA*trendWeightPriceLong
		strength = math.Max(-100, math.Min(100, strength*trendScale))

		pos := book.Position(bar.Symbol)

		switch {
		case strength < 0 && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("trend strength %.1f turned negative while long", strength))
		case strength > 0 && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("trend strength %.1f turned positive while short", strength))
		case strength > s.threshold && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, clampConfidence(strength/100),
				fmt.Sprintf("trend strength %.1f above %.1f", strength, s.threshold))
		case strength < -s.threshold && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, clampConfidence(-strength/100),
				fmt.Sprintf("trend strength %.1f below -%.1f", strength, s.threshold))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("trend strength %.1f within threshold", strength))
		}
	})

	return sig
}

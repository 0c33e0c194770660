package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(bar types.Bar, prevClose float64) float64 {
	return math.Max(
		bar.High-bar.Low,
		math.Max(
			math.Abs(bar.High-prevClose),
			math.Abs(bar.Low-prevClose),
		),
	)
}

// ATR returns the average true range over the last period bars of the
// snapshot. The first bar of the snapshot only contributes its high-low
// range since no previous close is retained before it.
func ATR(bars []types.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}

	start := len(bars) - period

	sum := 0.0
	for i := start; i < len(bars); i++ {
		sum += TrueRange(bars[i], bars[i-1].Close)
	}

	return sum / float64(period), true
}

// OBV returns the on-balance volume accumulated across the snapshot,
// starting from zero at the oldest retained bar.
func OBV(bars []types.Bar) float64 {
	obv := 0.0

	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += float64(bars[i].Volume)
		case bars[i].Close < bars[i-1].Close:
			obv -= float64(bars[i].Volume)
		}
	}

	return obv
}

// RSI returns the relative strength index over the last period bar-to-bar
// changes of the snapshot. A snapshot with no losses returns 100, one with
// no gains returns 0.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}

	start := len(values) - period

	var gains, losses float64

	for i := start; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if gains+losses == 0 {
		// Flat window, no directional pressure either way.
		return 50, true
	}

	if losses == 0 {
		return 100, true
	}

	rs := (gains / float64(period)) / (losses / float64(period))

	return 100 - 100/(1+rs), true
}

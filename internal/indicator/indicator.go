// Package indicator contains the pure numeric recipes strategies share.
//
// Every function operates on an ordered snapshot taken from a rolling
// window (oldest first) and keeps no hidden state. Divisions by
// data-derived quantities are guarded: when a denominator is zero the
// function reports "no value" through its ok result instead of letting
// NaN or Inf leak into a signal.
package indicator

import "math"

// Mean returns the arithmetic mean of the snapshot. Returns 0 for an
// empty snapshot.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// SMA returns the simple moving average of the last period values.
// Returns (0, false) when fewer than period values are available.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}

	return sum / float64(period), true
}

// EMA returns the exponential moving average of the snapshot, seeded with
// the first element and smoothed with k = 2/(period+1).
//
// The recurrence is re-derived from the full snapshot on every call. Once
// the window slides, the seed moves with it, so the result differs from a
// continuously-updated EMA carried forward as a scalar. That window-reseeded
// behavior is deliberate here; do not replace it with an incremental value.
func EMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) == 0 {
		return 0, false
	}

	k := 2.0 / (float64(period) + 1.0)
	ema := values[0]

	for _, v := range values[1:] {
		ema = v*k + ema*(1-k)
	}

	return ema, true
}

// Variance returns the population variance of the snapshot.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of the snapshot.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// ZScore returns how many standard deviations x sits from the snapshot
// mean. When the snapshot has zero variance the z-score is undefined and
// (0, false) is returned; callers surface that as a neutral signal.
func ZScore(x float64, values []float64) (float64, bool) {
	sd := StdDev(values)
	if sd == 0 {
		return 0, false
	}

	return (x - Mean(values)) / sd, true
}

// MeanDeviation returns the mean absolute deviation of the snapshot from
// its mean, the denominator of the CCI recipe.
func MeanDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)

	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v - mean)
	}

	return sum / float64(len(values))
}

// Highest returns the maximum of the snapshot.
func Highest(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	return max, true
}

// Lowest returns the minimum of the snapshot.
func Lowest(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}

	return min, true
}

// PercentileRank returns the fraction of snapshot values that are less
// than or equal to x, in [0, 1].
func PercentileRank(values []float64, x float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	count := 0
	for _, v := range values {
		if v <= x {
			count++
		}
	}

	return float64(count) / float64(len(values)), true
}

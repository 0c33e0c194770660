package types

import (
	"math"
	"time"
)

// Bar is a single OHLCV market observation for a symbol. Bars are treated as
// immutable values once produced by a feed.
type Bar struct {
	// Symbol is the instrument this bar belongs to.
	Symbol string `csv:"symbol"`
	// Time is the bar timestamp (close time of the aggregation window).
	Time time.Time `csv:"time"`
	// Open is the opening price of the window.
	Open float64 `csv:"open"`
	// High is the highest traded price of the window.
	High float64 `csv:"high"`
	// Low is the lowest traded price of the window.
	Low float64 `csv:"low"`
	// Close is the last traded price of the window.
	Close float64 `csv:"close"`
	// Volume is the traded volume of the window.
	Volume int64 `csv:"volume"`
}

// Valid reports whether the bar is well-formed enough to evaluate: a non-empty
// symbol and finite price fields. Strategies answer Neutral for invalid bars
// instead of propagating an error.
func (b Bar) Valid() bool {
	if b.Symbol == "" {
		return false
	}

	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// TypicalPrice returns (high + low + close) / 3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

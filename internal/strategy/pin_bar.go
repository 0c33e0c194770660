package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// PinBar matches single-bar rejection candles: a hammer (long lower wick,
// small body near the high) opens long, a shooting star (long upper wick,
// small body near the low) opens short. The wick must be at least wickRatio
// times the body. This is the only stateless variant; it still answers
// through the common warm-up free path.
type PinBar struct {
	wickRatio float64
}

// NewPinBar creates a pin bar rejection strategy. wickRatio defaults to 2.
func NewPinBar(wickRatio float64) *PinBar {
	if wickRatio <= 0 {
		wickRatio = 2.0
	}

	return &PinBar{wickRatio: wickRatio}
}

// Name returns the name of the strategy.
func (s *PinBar) Name() string {
	return "pin_bar"
}

// Classification returns the intended holding horizon.
func (s *PinBar) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state. PinBar keeps none.
func (s *PinBar) Reset() {}

// Evaluate implements Strategy.
func (s *PinBar) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	barRange := bar.High - bar.Low
	if barRange == 0 {
		return neutral(s.Name(), bar, "zero-range bar")
	}

	body := bar.Close - bar.Open
	if body < 0 {
		body = -body
	}

	bodyTop := bar.Open
	bodyBottom := bar.Close

	if bar.Close > bar.Open {
		bodyTop = bar.Close
		bodyBottom = bar.Open
	}

	lowerWick := bodyBottom - bar.Low
	upperWick := bar.High - bodyTop

	hammer := lowerWick >= s.wickRatio*body && upperWick <= body
	star := upperWick >= s.wickRatio*body && lowerWick <= body

	if body == 0 {
		// Doji; wick dominance is meaningless without a body.
		return neutral(s.Name(), bar, "doji bar")
	}

	pos := book.Position(bar.Symbol)

	switch {
	case star && pos > 0:
		return exit(s.Name(), bar, types.DirectionShort, 0.5,
			fmt.Sprintf("shooting star against long, upper wick %.4f", upperWick))
	case hammer && pos < 0:
		return exit(s.Name(), bar, types.DirectionLong, 0.5,
			fmt.Sprintf("hammer against short, lower wick %.4f", lowerWick))
	case hammer && pos <= 0:
		return open(s.Name(), bar, types.DirectionLong, 0.55,
			fmt.Sprintf("hammer rejection, lower wick %.4f vs body %.4f", lowerWick, body))
	case star && pos >= 0:
		return open(s.Name(), bar, types.DirectionShort, 0.55,
			fmt.Sprintf("shooting star rejection, upper wick %.4f vs body %.4f", upperWick, body))
	default:
		return neutral(s.Name(), bar, "no rejection pattern")
	}
}

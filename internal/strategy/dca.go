package strategy

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// DCA accumulates a position on a fixed time interval regardless of price:
// the first bar for a symbol triggers a purchase, then one purchase per
// elapsed interval until the target position is reached. The per-purchase
// budget is decimal so repeated purchases never accumulate float drift.
type DCA struct {
	interval time.Duration
	target   int
	budget   decimal.Decimal
	state    *table[dcaState]
}

type dcaState struct {
	lastPurchase optional.Option[time.Time]
}

// NewDCAFromParams builds a DCA strategy from config parameters.
func NewDCAFromParams(p Params) (Strategy, error) {
	if p.Interval < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidInterval, "dca interval must not be negative, got %s", p.Interval)
	}

	if p.Budget.IsNegative() {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "dca budget must not be negative, got %s", p.Budget)
	}

	return NewDCA(p.Interval, p.TargetPosition, p.Budget), nil
}

// NewDCA creates a dollar-cost averaging strategy. Zero values select a
// 30 minute interval, a target of 10 units, and a 100 budget per purchase.
func NewDCA(interval time.Duration, target int, budget decimal.Decimal) *DCA {
	if interval == 0 {
		interval = 30 * time.Minute
	}

	if target <= 0 {
		target = 10
	}

	if budget.IsZero() {
		budget = decimal.NewFromInt(100)
	}

	return &DCA{
		interval: interval,
		target:   target,
		budget:   budget,
		state:    newTable[dcaState](),
	}
}

// Name returns the name of the strategy.
func (s *DCA) Name() string {
	return "dca"
}

// Classification returns the intended holding horizon.
func (s *DCA) Classification() types.Classification {
	return types.ClassificationLongTerm
}

// Reset clears all per-symbol state.
func (s *DCA) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *DCA) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *dcaState) {
		pos := book.Position(bar.Symbol)
		if pos >= s.target {
			sig = neutral(s.Name(), bar, fmt.Sprintf("target position %d reached", s.target))
			return
		}

		if st.lastPurchase.IsSome() {
			elapsed := bar.Time.Sub(st.lastPurchase.Unwrap())
			if elapsed < s.interval {
				remaining := s.interval - elapsed
				minutes := int((remaining + time.Minute - 1) / time.Minute)
				sig = neutral(s.Name(), bar, fmt.Sprintf("next purchase in %d minutes", minutes))

				return
			}
		}

		st.lastPurchase = optional.Some(bar.Time)
		sig = open(s.Name(), bar, types.DirectionLong, 1.0,
			fmt.Sprintf("scheduled purchase of %s at %.4f (%d/%d units held)",
				s.budget.StringFixed(2), bar.Close, pos, s.target))
	})

	return sig
}

package strategy

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Seasonal is the calendar gate: it holds a long through a configured set of
// months and stays flat outside them. Entries fire on the first bar of a
// favorable month, exits on the first bar after the window closes. The
// default window is November through April.
type Seasonal struct {
	months map[time.Month]bool
	state  *table[seasonalState]
}

type seasonalState struct {
	prevMonth optional.Option[time.Month]
}

// NewSeasonal creates a calendar gated strategy over the given months.
func NewSeasonal(months []time.Month) *Seasonal {
	if len(months) == 0 {
		months = []time.Month{
			time.November, time.December, time.January,
			time.February, time.March, time.April,
		}
	}

	set := make(map[time.Month]bool, len(months))
	for _, m := range months {
		set[m] = true
	}

	return &Seasonal{
		months: set,
		state:  newTable[seasonalState](),
	}
}

// Name returns the name of the strategy.
func (s *Seasonal) Name() string {
	return "seasonal"
}

// Classification returns the intended holding horizon.
func (s *Seasonal) Classification() types.Classification {
	return types.ClassificationLongTerm
}

// Reset clears all per-symbol state.
func (s *Seasonal) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Seasonal) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *seasonalState) {
		month := bar.Time.Month()
		favorable := s.months[month]

		prevMonth := st.prevMonth
		st.prevMonth = optional.Some(month)

		// Only act on the first bar seen in a month, so a flood of bars
		// inside the same month does not re-signal.
		monthChanged := prevMonth.IsNone() || prevMonth.Unwrap() != month
		pos := book.Position(bar.Symbol)

		switch {
		case monthChanged && favorable && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("%s opens the favorable window", month))
		case monthChanged && !favorable && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("%s closes the favorable window", month))
		case favorable:
			sig = neutral(s.Name(), bar, fmt.Sprintf("holding through favorable %s", month))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("outside favorable window (%s)", month))
		}
	})

	return sig
}

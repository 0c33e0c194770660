package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// ThreeLine matches the three white soldiers and three black crows patterns:
// three consecutive bars in the same direction, each closing beyond the
// previous close.
type ThreeLine struct {
	state *table[threeLineState]
}

type threeLineState struct {
	bars *buffer.Rolling[types.Bar]
}

// NewThreeLine creates a soldiers/crows pattern strategy.
func NewThreeLine() *ThreeLine {
	return &ThreeLine{
		state: newTable[threeLineState](),
	}
}

// Name returns the name of the strategy.
func (s *ThreeLine) Name() string {
	return "three_line"
}

// Classification returns the intended holding horizon.
func (s *ThreeLine) Classification() types.Classification {
	return types.ClassificationShortTerm
}

// Reset clears all per-symbol state.
func (s *ThreeLine) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *ThreeLine) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *threeLineState) {
		if st.bars == nil {
			st.bars = buffer.NewRolling[types.Bar](3)
		}

		st.bars.Push(bar)

		if !st.bars.Full() {
			sig = warmingUp(s.Name(), bar, st.bars.Len(), 3)
			return
		}

		bars := st.bars.Values()

		soldiers := true
		crows := true

		for i, b := range bars {
			if b.Close <= b.Open {
				soldiers = false
			}

			if b.Close >= b.Open {
				crows = false
			}

			if i > 0 {
				if b.Close <= bars[i-1].Close {
					soldiers = false
				}

				if b.Close >= bars[i-1].Close {
					crows = false
				}
			}
		}

		pos := book.Position(bar.Symbol)

		switch {
		case crows && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("three black crows against long at %.4f", bar.Close))
		case soldiers && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("three white soldiers against short at %.4f", bar.Close))
		case soldiers && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("three white soldiers closing at %.4f", bar.Close))
		case crows && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("three black crows closing at %.4f", bar.Close))
		default:
			sig = neutral(s.Name(), bar, "no three-line pattern")
		}
	})

	return sig
}

package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Engulfing matches the two-candle engulfing reversal pattern: a bar whose
// body fully wraps the previous bar's body in the opposite direction.
type Engulfing struct {
	state *table[engulfingState]
}

type engulfingState struct {
	bars *buffer.Rolling[types.Bar]
}

// NewEngulfing creates an engulfing candle pattern strategy.
func NewEngulfing() *Engulfing {
	return &Engulfing{
		state: newTable[engulfingState](),
	}
}

// Name returns the name of the strategy.
func (s *Engulfing) Name() string {
	return "engulfing"
}

// Classification returns the intended holding horizon.
func (s *Engulfing) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state.
func (s *Engulfing) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *Engulfing) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *engulfingState) {
		if st.bars == nil {
			st.bars = buffer.NewRolling[types.Bar](2)
		}

		st.bars.Push(bar)

		if !st.bars.Full() {
			sig = warmingUp(s.Name(), bar, st.bars.Len(), 2)
			return
		}

		bars := st.bars.Values()
		prev, cur := bars[0], bars[1]
		pos := book.Position(bar.Symbol)

		bullish := prev.Close < prev.Open && // previous bar down
			cur.Close > cur.Open && // current bar up
			cur.Open <= prev.Close && cur.Close >= prev.Open // body engulfs body

		bearish := prev.Close > prev.Open &&
			cur.Close < cur.Open &&
			cur.Open >= prev.Close && cur.Close <= prev.Open

		switch {
		case bearish && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.55,
				fmt.Sprintf("bearish engulfing against long at %.4f", cur.Close))
		case bullish && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.55,
				fmt.Sprintf("bullish engulfing against short at %.4f", cur.Close))
		case bullish && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.55,
				fmt.Sprintf("bullish engulfing at %.4f", cur.Close))
		case bearish && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.55,
				fmt.Sprintf("bearish engulfing at %.4f", cur.Close))
		default:
			sig = neutral(s.Name(), bar, "no engulfing pattern")
		}
	})

	return sig
}

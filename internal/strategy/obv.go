package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// OBVTrend follows volume flow: it accumulates on-balance volume over the
// rolling window and trades when OBV pulls away from its own mean, on the
// premise that volume leads price.
type OBVTrend struct {
	period int
	state  *table[obvState]
}

type obvState struct {
	bars *buffer.Rolling[types.Bar]
	obvs *buffer.Rolling[float64]
}

// NewOBV creates an on-balance volume trend strategy.
func NewOBV(period int) *OBVTrend {
	if period <= 0 {
		period = 20
	}

	return &OBVTrend{
		period: period,
		state:  newTable[obvState](),
	}
}

// Name returns the name of the strategy.
func (s *OBVTrend) Name() string {
	return fmt.Sprintf("obv_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *OBVTrend) Classification() types.Classification {
	return types.ClassificationSwing
}

// Reset clears all per-symbol state.
func (s *OBVTrend) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *OBVTrend) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *obvState) {
		if st.bars == nil {
			st.bars = buffer.NewRolling[types.Bar](s.period)
			st.obvs = buffer.NewRolling[float64](s.period)
		}

		st.bars.Push(bar)
		st.obvs.Push(indicator.OBV(st.bars.Values()))

		if !st.obvs.Full() {
			sig = warmingUp(s.Name(), bar, st.obvs.Len(), s.period)
			return
		}

		obvValues := st.obvs.Values()
		obv := obvValues[len(obvValues)-1]
		mean := indicator.Mean(obvValues)
		pos := book.Position(bar.Symbol)

		switch {
		case obv < mean && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.5,
				fmt.Sprintf("OBV %.0f fell under its mean %.0f while long", obv, mean))
		case obv > mean && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.5,
				fmt.Sprintf("OBV %.0f rose over its mean %.0f while short", obv, mean))
		case obv > mean && bar.Close > bar.Open && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, 0.55,
				fmt.Sprintf("OBV %.0f above its %d-bar mean %.0f on an up bar", obv, s.period, mean))
		case obv < mean && bar.Close < bar.Open && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, 0.55,
				fmt.Sprintf("OBV %.0f below its %d-bar mean %.0f on a down bar", obv, s.period, mean))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("OBV %.0f near its mean %.0f", obv, mean))
		}
	})

	return sig
}

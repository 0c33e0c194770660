package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-signal/internal/buffer"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// VolumeSpike joins moves confirmed by unusual volume: a bar whose volume
// z-score exceeds the threshold is treated as institutional participation
// in the direction of the bar.
type VolumeSpike struct {
	period    int
	threshold float64
	state     *table[volumeSpikeState]
}

type volumeSpikeState struct {
	volumes *buffer.Rolling[float64]
}

// NewVolumeSpike creates a volume spike confirmation strategy.
func NewVolumeSpike(period int, threshold float64) *VolumeSpike {
	if period <= 0 {
		period = 20
	}

	if threshold <= 0 {
		threshold = 2.0
	}

	return &VolumeSpike{
		period:    period,
		threshold: threshold,
		state:     newTable[volumeSpikeState](),
	}
}

// Name returns the name of the strategy.
func (s *VolumeSpike) Name() string {
	return fmt.Sprintf("volume_spike_%d", s.period)
}

// Classification returns the intended holding horizon.
func (s *VolumeSpike) Classification() types.Classification {
	return types.ClassificationIntraday
}

// Reset clears all per-symbol state.
func (s *VolumeSpike) Reset() {
	s.state.reset()
}

// Evaluate implements Strategy.
func (s *VolumeSpike) Evaluate(book types.PositionView, bar types.Bar) types.Signal {
	if !bar.Valid() {
		return noMarketData(s.Name(), bar)
	}

	var sig types.Signal

	s.state.with(bar.Symbol, func(st *volumeSpikeState) {
		if st.volumes == nil {
			st.volumes = buffer.NewRolling[float64](s.period)
		}

		st.volumes.Push(float64(bar.Volume))

		if !st.volumes.Full() {
			sig = warmingUp(s.Name(), bar, st.volumes.Len(), s.period)
			return
		}

		z, ok := indicator.ZScore(float64(bar.Volume), st.volumes.Values())
		if !ok {
			sig = neutral(s.Name(), bar, "zero variance in volume window")
			return
		}

		spike := z > s.threshold
		up := bar.Close > bar.Open
		down := bar.Close < bar.Open
		pos := book.Position(bar.Symbol)

		switch {
		case spike && down && pos > 0:
			sig = exit(s.Name(), bar, types.DirectionShort, 0.6,
				fmt.Sprintf("volume spike (z-score %.2f) on a down bar while long", z))
		case spike && up && pos < 0:
			sig = exit(s.Name(), bar, types.DirectionLong, 0.6,
				fmt.Sprintf("volume spike (z-score %.2f) on an up bar while short", z))
		case spike && up && pos <= 0:
			sig = open(s.Name(), bar, types.DirectionLong, confidenceFromZ(z, s.threshold),
				fmt.Sprintf("volume spike (z-score %.2f) on an up bar", z))
		case spike && down && pos >= 0:
			sig = open(s.Name(), bar, types.DirectionShort, confidenceFromZ(z, s.threshold),
				fmt.Sprintf("volume spike (z-score %.2f) on a down bar", z))
		default:
			sig = neutral(s.Name(), bar, fmt.Sprintf("volume z-score %.2f without spike", z))
		}
	})

	return sig
}

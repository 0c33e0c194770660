package strategy

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Params carries the per-strategy construction parameters parsed from the
// engine config. Each variant reads the fields it cares about and falls back
// to its own defaults for zero values, so a config only needs to set what it
// wants to change.
type Params struct {
	// Period is the primary lookback window in bars.
	Period int `yaml:"period" json:"period,omitempty"`
	// FastPeriod and SlowPeriod are the windows of dual moving average
	// variants. SlowPeriod must exceed FastPeriod when both are set.
	FastPeriod int `yaml:"fast_period" json:"fast_period,omitempty"`
	SlowPeriod int `yaml:"slow_period" json:"slow_period,omitempty"`
	// SignalPeriod smooths a derived series (MACD signal line).
	SignalPeriod int `yaml:"signal_period" json:"signal_period,omitempty"`
	// Multiplier scales a band or range (Keltner ATR band, range filter).
	Multiplier float64 `yaml:"multiplier" json:"multiplier,omitempty"`
	// Threshold is the variant-specific trigger level (z-score, CCI level,
	// gap fraction, percentile rank).
	Threshold float64 `yaml:"threshold" json:"threshold,omitempty"`
	// Interval is the minimum spacing between recurring purchases.
	Interval time.Duration `yaml:"interval" json:"interval,omitempty"`
	// TargetPosition caps accumulation strategies.
	TargetPosition int `yaml:"target_position" json:"target_position,omitempty"`
	// Budget is the notional amount spent per recurring purchase. Kept as a
	// decimal so repeated purchases never accumulate binary rounding drift.
	Budget decimal.Decimal `yaml:"budget" json:"budget,omitempty"`
	// Months gates calendar strategies; empty means the variant default.
	Months []time.Month `yaml:"months" json:"months,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling for Params. Interval is
// written as a duration string ("30m") and Budget as a decimal string
// ("250.50"), neither of which yaml.v3 decodes natively.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	type rawParams struct {
		Period         int          `yaml:"period"`
		FastPeriod     int          `yaml:"fast_period"`
		SlowPeriod     int          `yaml:"slow_period"`
		SignalPeriod   int          `yaml:"signal_period"`
		Multiplier     float64      `yaml:"multiplier"`
		Threshold      float64      `yaml:"threshold"`
		Interval       string       `yaml:"interval"`
		TargetPosition int          `yaml:"target_position"`
		Budget         string       `yaml:"budget"`
		Months         []time.Month `yaml:"months"`
	}

	var raw rawParams
	if err := value.Decode(&raw); err != nil {
		return err
	}

	p.Period = raw.Period
	p.FastPeriod = raw.FastPeriod
	p.SlowPeriod = raw.SlowPeriod
	p.SignalPeriod = raw.SignalPeriod
	p.Multiplier = raw.Multiplier
	p.Threshold = raw.Threshold
	p.TargetPosition = raw.TargetPosition
	p.Months = raw.Months

	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidInterval, err, "invalid interval %q", raw.Interval)
		}

		p.Interval = interval
	}

	if raw.Budget != "" {
		budget, err := decimal.NewFromString(raw.Budget)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid budget %q", raw.Budget)
		}

		p.Budget = budget
	}

	return nil
}

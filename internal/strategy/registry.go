package strategy

import (
	"sort"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Factory constructs a strategy from its config parameters.
type Factory func(p Params) (Strategy, error)

var factories = map[string]Factory{
	"sma_cross":           func(p Params) (Strategy, error) { return NewSMACross(p.FastPeriod, p.SlowPeriod), nil },
	"ema_cross":           func(p Params) (Strategy, error) { return NewEMACross(p.FastPeriod, p.SlowPeriod), nil },
	"macd_cross":          func(p Params) (Strategy, error) { return NewMACDCross(p.FastPeriod, p.SlowPeriod, p.SignalPeriod), nil },
	"momentum":            func(p Params) (Strategy, error) { return NewMomentum(p.Period, p.Threshold), nil },
	"mean_reversion":      func(p Params) (Strategy, error) { return NewMeanReversion(p.Period, p.Threshold), nil },
	"cci":                 func(p Params) (Strategy, error) { return NewCCI(p.Period), nil },
	"vwap":                func(p Params) (Strategy, error) { return NewVWAP(p.Period, p.Multiplier), nil },
	"donchian":            func(p Params) (Strategy, error) { return NewDonchian(p.Period), nil },
	"keltner":             func(p Params) (Strategy, error) { return NewKeltner(p.Period, p.Multiplier), nil },
	"ichimoku":            func(p Params) (Strategy, error) { return NewIchimoku(p.FastPeriod, p.SlowPeriod), nil },
	"rsi":                 func(p Params) (Strategy, error) { return NewRSI(p.Period), nil },
	"obv":                 func(p Params) (Strategy, error) { return NewOBV(p.Period), nil },
	"atr_breakout":        func(p Params) (Strategy, error) { return NewATRBreakout(p.Period, p.Multiplier), nil },
	"engulfing":           func(p Params) (Strategy, error) { return NewEngulfing(), nil },
	"three_line":          func(p Params) (Strategy, error) { return NewThreeLine(), nil },
	"pin_bar":             func(p Params) (Strategy, error) { return NewPinBar(p.Multiplier), nil },
	"seasonal":            func(p Params) (Strategy, error) { return NewSeasonal(p.Months), nil },
	"dca":                 NewDCAFromParams,
	"percentile":          func(p Params) (Strategy, error) { return NewPercentile(p.Period, p.Threshold), nil },
	"cointegration_proxy": func(p Params) (Strategy, error) { return NewCointegration(p.Period, p.Threshold), nil },
	"distress_proxy":      func(p Params) (Strategy, error) { return NewDistress(p.Period, p.Threshold), nil },
	"quality_proxy":       func(p Params) (Strategy, error) { return NewQuality(p.Period, p.Threshold), nil },
	"gap":                 func(p Params) (Strategy, error) { return NewGap(p.Threshold), nil },
	"volume_spike":        func(p Params) (Strategy, error) { return NewVolumeSpike(p.Period, p.Threshold), nil },
	"trend_strength": func(p Params) (Strategy, error) {
		return NewTrendStrength(p.FastPeriod, p.SlowPeriod, p.Threshold), nil
	},
	"range_filter": func(p Params) (Strategy, error) { return NewRangeFilter(p.Period, p.Multiplier), nil },
}

// New constructs the named strategy from params. The strategy set is closed;
// unknown names are rejected so a config typo fails at load time rather than
// silently evaluating nothing.
func New(name string, p Params) (Strategy, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy %q", name)
	}

	return factory(p)
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

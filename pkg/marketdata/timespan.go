package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Timespan is a bar interval in provider-neutral notation. The values match
// Binance interval strings directly and map onto Polygon multiplier and
// timespan pairs.
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanFourHours      Timespan = "4h"
	TimespanOneDay         Timespan = "1d"
	TimespanOneWeek        Timespan = "1w"
)

// Validate rejects intervals no provider understands.
func (t Timespan) Validate() error {
	switch t {
	case TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes,
		TimespanFifteenMinutes, TimespanThirtyMinutes, TimespanOneHour,
		TimespanFourHours, TimespanOneDay, TimespanOneWeek:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidTimespan, "invalid timespan %q", t)
	}
}

// BinanceInterval returns the Binance kline interval string.
func (t Timespan) BinanceInterval() string {
	return string(t)
}

// Multiplier returns the Polygon aggregate multiplier.
func (t Timespan) Multiplier() int {
	switch t {
	case TimespanThreeMinutes:
		return 3
	case TimespanFiveMinutes:
		return 5
	case TimespanFifteenMinutes:
		return 15
	case TimespanThirtyMinutes:
		return 30
	case TimespanFourHours:
		return 4
	default:
		return 1
	}
}

// Timespan returns the Polygon aggregate timespan unit.
func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes,
		TimespanFifteenMinutes, TimespanThirtyMinutes:
		return models.Minute
	case TimespanOneHour, TimespanFourHours:
		return models.Hour
	case TimespanOneWeek:
		return models.Week
	default:
		return models.Day
	}
}

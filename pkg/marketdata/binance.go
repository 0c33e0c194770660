package marketdata

import (
	"context"
	"iter"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// binancePageSize is the kline page limit enforced by the Binance API.
const binancePageSize = 500

// BinanceFeed fetches klines from the Binance public market data API, which
// requires no authentication.
type BinanceFeed struct {
	client *binance.Client
}

// NewBinanceFeed creates an unauthenticated Binance feed.
func NewBinanceFeed() *BinanceFeed {
	return &BinanceFeed{client: binance.NewClient("", "")}
}

// Bars implements Feed. Pagination follows the close time of the last kline
// of each page, so consecutive pages never overlap.
func (f *BinanceFeed) Bars(ctx context.Context, symbol string, start, end time.Time, timespan Timespan) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		if err := timespan.Validate(); err != nil {
			yield(types.Bar{}, err)
			return
		}

		currentStart := start.UnixMilli()
		endMillis := end.UnixMilli()

		for currentStart < endMillis {
			klines, err := f.client.NewKlinesService().
				Symbol(symbol).
				Interval(timespan.BinanceInterval()).
				StartTime(currentStart).
				EndTime(endMillis).
				Do(ctx)
			if err != nil {
				yield(types.Bar{}, errors.Wrapf(errors.ErrCodeFeedFetchFailed, err, "failed to fetch %s klines", symbol))
				return
			}

			for _, k := range klines {
				bar, err := klineToBar(symbol, k)
				if err != nil {
					if !yield(types.Bar{}, err) {
						return
					}

					continue
				}

				if !yield(bar, nil) {
					return
				}
			}

			if len(klines) < binancePageSize {
				return
			}

			currentStart = klines[len(klines)-1].CloseTime + 1
		}
	}
}

func klineToBar(symbol string, k *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "bad open %q", k.Open)
	}

	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "bad high %q", k.High)
	}

	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "bad low %q", k.Low)
	}

	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "bad close %q", k.Close)
	}

	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "bad volume %q", k.Volume)
	}

	return types.Bar{
		Symbol: symbol,
		Time:   time.UnixMilli(k.OpenTime),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: int64(volume),
	}, nil
}

package marketdata

import (
	"context"
	"iter"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// polygonPageLimit is the aggregate page size requested from Polygon.
const polygonPageLimit = 50000

// PolygonFeed fetches aggregates from Polygon.io.
type PolygonFeed struct {
	client *polygon.Client
}

// NewPolygonFeed creates a Polygon feed. An API key is required.
func NewPolygonFeed(apiKey string) (*PolygonFeed, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon feed requires an API key")
	}

	return &PolygonFeed{client: polygon.New(apiKey)}, nil
}

// Bars implements Feed.
func (f *PolygonFeed) Bars(ctx context.Context, symbol string, start, end time.Time, timespan Timespan) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		if err := timespan.Validate(); err != nil {
			yield(types.Bar{}, err)
			return
		}

		//nolint:exhaustruct // third-party struct with many optional fields
		params := models.ListAggsParams{
			Ticker:     symbol,
			Multiplier: timespan.Multiplier(),
			Timespan:   timespan.Timespan(),
			From:       models.Millis(start),
			To:         models.Millis(end),
		}.WithLimit(polygonPageLimit)

		aggs := f.client.ListAggs(ctx, params)
		for aggs.Next() {
			agg := aggs.Item()
			bar := types.Bar{
				Symbol: symbol,
				Time:   time.Time(agg.Timestamp),
				Open:   agg.Open,
				High:   agg.High,
				Low:    agg.Low,
				Close:  agg.Close,
				Volume: int64(agg.Volume),
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := aggs.Err(); err != nil {
			yield(types.Bar{}, errors.Wrapf(errors.ErrCodeFeedFetchFailed, err, "failed to list %s aggregates", symbol))
		}
	}
}

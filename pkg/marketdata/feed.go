// Package marketdata fetches historical bars from external providers and
// local files. Feeds expose bars as iterators so callers stream them into
// the engine without buffering whole date ranges in memory.
package marketdata

import (
	"context"
	"iter"
	"time"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// FeedType selects a bar source.
type FeedType string

const (
	FeedBinance FeedType = "binance"
	FeedPolygon FeedType = "polygon"
	FeedCSV     FeedType = "csv"
)

// FeedConfig carries provider credentials and file locations. Only the
// fields relevant to the chosen feed type are read.
type FeedConfig struct {
	// PolygonAPIKey authenticates against Polygon.io.
	PolygonAPIKey string
	// CSVPath points at a local bar file for the csv feed.
	CSVPath string
}

// Feed yields historical bars for one symbol in ascending time order. The
// iterator yields bar and error pairs; cancel the context to stop early.
type Feed interface {
	Bars(ctx context.Context, symbol string, start, end time.Time, timespan Timespan) iter.Seq2[types.Bar, error]
}

// NewFeed creates the feed for the given type.
func NewFeed(feedType FeedType, cfg FeedConfig) (Feed, error) {
	switch feedType {
	case FeedBinance:
		return NewBinanceFeed(), nil
	case FeedPolygon:
		return NewPolygonFeed(cfg.PolygonAPIKey)
	case FeedCSV:
		return NewCSVFeed(cfg.CSVPath)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedProvider, "unsupported market data feed %q", feedType)
	}
}

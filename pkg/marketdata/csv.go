package marketdata

import (
	"context"
	"iter"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// CSVFeed reads bars from a local CSV file with the columns
// symbol,time,open,high,low,close,volume and RFC3339 timestamps. The file is
// loaded once and filtered per request; the timespan argument is ignored
// because the file defines its own cadence.
type CSVFeed struct {
	path string

	once    sync.Once
	loadErr error
	cache   []*types.Bar
}

// NewCSVFeed creates a feed over the CSV file at path.
func NewCSVFeed(path string) (*CSVFeed, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "csv feed requires a file path")
	}

	return &CSVFeed{path: path}, nil
}

func (f *CSVFeed) load() error {
	f.once.Do(func() {
		file, err := os.Open(f.path)
		if err != nil {
			f.loadErr = errors.Wrapf(errors.ErrCodeFeedFetchFailed, err, "failed to open %s", f.path)
			return
		}
		defer file.Close()

		if err := gocsv.UnmarshalFile(file, &f.cache); err != nil {
			f.loadErr = errors.Wrapf(errors.ErrCodeFeedParseFailed, err, "failed to parse %s", f.path)
		}
	})

	return f.loadErr
}

// Bars implements Feed. An empty symbol matches every row.
func (f *CSVFeed) Bars(ctx context.Context, symbol string, start, end time.Time, _ Timespan) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		if err := f.load(); err != nil {
			yield(types.Bar{}, err)
			return
		}

		for _, bar := range f.cache {
			if ctx.Err() != nil {
				return
			}

			if symbol != "" && bar.Symbol != symbol {
				continue
			}

			if bar.Time.Before(start) || bar.Time.After(end) {
				continue
			}

			if !yield(*bar, nil) {
				return
			}
		}
	}
}

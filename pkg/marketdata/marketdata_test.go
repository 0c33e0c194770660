package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

type MarketDataTestSuite struct {
	suite.Suite
}

func TestMarketDataSuite(t *testing.T) {
	suite.Run(t, new(MarketDataTestSuite))
}

func (suite *MarketDataTestSuite) TestTimespanValidation() {
	suite.NoError(TimespanOneMinute.Validate())
	suite.NoError(TimespanOneDay.Validate())

	err := Timespan("7m").Validate()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan))
}

func (suite *MarketDataTestSuite) TestTimespanPolygonMapping() {
	tests := []struct {
		name       string
		timespan   Timespan
		multiplier int
	}{
		{name: "one minute", timespan: TimespanOneMinute, multiplier: 1},
		{name: "fifteen minutes", timespan: TimespanFifteenMinutes, multiplier: 15},
		{name: "four hours", timespan: TimespanFourHours, multiplier: 4},
		{name: "one day", timespan: TimespanOneDay, multiplier: 1},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.multiplier, tt.timespan.Multiplier())
		})
	}
}

func (suite *MarketDataTestSuite) TestNewFeedValidation() {
	_, err := NewFeed(FeedType("alpaca"), FeedConfig{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedProvider))

	_, err = NewFeed(FeedPolygon, FeedConfig{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = NewFeed(FeedCSV, FeedConfig{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	feed, err := NewFeed(FeedBinance, FeedConfig{})
	suite.Require().NoError(err)
	suite.NotNil(feed)
}

func (suite *MarketDataTestSuite) writeCSV(rows string) string {
	path := filepath.Join(suite.T().TempDir(), "bars.csv")
	content := "symbol,time,open,high,low,close,volume\n" + rows
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *MarketDataTestSuite) TestCSVFeedFiltersSymbolAndRange() {
	path := suite.writeCSV(
		"AAPL,2024-01-02T09:30:00Z,100,101,99,100.5,1000\n" +
			"AAPL,2024-01-02T09:31:00Z,100.5,102,100,101.5,1200\n" +
			"MSFT,2024-01-02T09:30:00Z,390,391,389,390.5,800\n" +
			"AAPL,2024-01-02T09:45:00Z,101.5,103,101,102.5,900\n")

	feed, err := NewCSVFeed(path)
	suite.Require().NoError(err)

	start := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 9, 40, 0, 0, time.UTC)

	var bars []types.Bar
	for bar, err := range feed.Bars(context.Background(), "AAPL", start, end, TimespanOneMinute) {
		suite.Require().NoError(err)
		bars = append(bars, bar)
	}

	suite.Require().Len(bars, 2)
	suite.Equal("AAPL", bars[0].Symbol)
	suite.InDelta(100.5, bars[0].Close, 1e-9)
	suite.InDelta(101.5, bars[1].Close, 1e-9)
}

func (suite *MarketDataTestSuite) TestCSVFeedMissingFile() {
	feed, err := NewCSVFeed(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Require().NoError(err)

	var firstErr error
	for _, err := range feed.Bars(context.Background(), "AAPL", time.Time{}, time.Now(), TimespanOneMinute) {
		firstErr = err
		break
	}

	suite.Require().Error(firstErr)
	suite.True(errors.HasCode(firstErr, errors.ErrCodeFeedFetchFailed))
}

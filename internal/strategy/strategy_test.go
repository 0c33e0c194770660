package strategy

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// stubBook is a fixed position book for tests.
type stubBook map[string]int

func (b stubBook) Position(symbol string) int {
	return b[symbol]
}

type StrategyTestSuite struct {
	suite.Suite
	base time.Time
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (suite *StrategyTestSuite) SetupTest() {
	suite.base = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
}

// bar builds a minute bar i steps after the suite base time.
func (suite *StrategyTestSuite) bar(symbol string, i int, open, high, low, closePrice float64) types.Bar {
	return types.Bar{
		Symbol: symbol,
		Time:   suite.base.Add(time.Duration(i) * time.Minute),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: 1000,
	}
}

// flatBar builds a bar with a single price, enough for close-only strategies.
func (suite *StrategyTestSuite) flatBar(symbol string, i int, price float64) types.Bar {
	return suite.bar(symbol, i, price, price, price, price)
}

func (suite *StrategyTestSuite) TestDonchianBreakoutLong() {
	s := NewDonchian(20)
	book := stubBook{}

	// 20 warm-up bars with ascending highs 101..120.
	for i := 0; i < 20; i++ {
		high := 101.0 + float64(i)
		sig := s.Evaluate(book, suite.bar("AAPL", i, high-1, high, high-2, high-0.5))
		suite.Equal(types.DirectionNeutral, sig.Direction)
		suite.Equal(fmt.Sprintf("warming up (%d/20 bars)", i+1), sig.Reason)
	}

	// 21st bar breaks the prior 20-bar high of 120.
	sig := s.Evaluate(book, suite.bar("AAPL", 20, 120, 121, 119, 120.5))
	suite.Equal(types.DirectionLong, sig.Direction)
	suite.InDelta(0.8, sig.Confidence, 1e-9)
	suite.False(sig.Exit)
	suite.Contains(sig.Reason, "broke above")
}

func (suite *StrategyTestSuite) TestDonchianLongSuppressedWhenAlreadyLong() {
	s := NewDonchian(20)
	book := stubBook{"AAPL": 5}

	for i := 0; i < 20; i++ {
		high := 101.0 + float64(i)
		s.Evaluate(book, suite.bar("AAPL", i, high-1, high, high-2, high-0.5))
	}

	sig := s.Evaluate(book, suite.bar("AAPL", 20, 120, 121, 119, 120.5))
	suite.Equal(types.DirectionNeutral, sig.Direction)
}

func (suite *StrategyTestSuite) TestPercentileTopOfWindowOpensLong() {
	s := NewPercentile(10, 90)
	book := stubBook{}

	// 9 warm-up bars with ascending closes 100..108.
	for i := 0; i < 9; i++ {
		sig := s.Evaluate(book, suite.flatBar("AAPL", i, 100.0+float64(i)))
		suite.Equal(types.DirectionNeutral, sig.Direction)
		suite.Equal(fmt.Sprintf("warming up (%d/10 bars)", i+1), sig.Reason)
	}

	// The 10th close tops every value in the window: rank 100%.
	sig := s.Evaluate(book, suite.flatBar("AAPL", 9, 109.0))
	suite.Equal(types.DirectionLong, sig.Direction)
	suite.False(sig.Exit)
	suite.Contains(sig.Reason, "ranks at 100.0%")
}

func (suite *StrategyTestSuite) TestPercentileBottomOfWindowOpensShort() {
	s := NewPercentile(10, 90)
	book := stubBook{}

	for i := 0; i < 9; i++ {
		s.Evaluate(book, suite.flatBar("AAPL", i, 109.0-float64(i)))
	}

	// The 10th close undercuts every value in the window: rank 10%.
	sig := s.Evaluate(book, suite.flatBar("AAPL", 9, 100.0))
	suite.Equal(types.DirectionShort, sig.Direction)
	suite.False(sig.Exit)
	suite.Contains(sig.Reason, "ranks at 10.0%")
}

func (suite *StrategyTestSuite) TestPercentileSubMedianRankExitsLong() {
	s := NewPercentile(10, 90)
	book := stubBook{"AAPL": 3}

	for i := 0; i < 9; i++ {
		s.Evaluate(book, suite.flatBar("AAPL", i, 100.0+float64(i)))
	}

	// Rank 20% while long exits instead of opening a short.
	sig := s.Evaluate(book, suite.flatBar("AAPL", 9, 100.0))
	suite.Equal(types.DirectionShort, sig.Direction)
	suite.True(sig.Exit)
	suite.Contains(sig.Reason, "fell under the median while long")
}

func (suite *StrategyTestSuite) TestIchimokuCrossoverOpensLong() {
	s := NewIchimoku(2, 4)
	book := stubBook{}

	// Flat warm-up leaves the lines overlapping at 100.
	var sig types.Signal
	for i := 0; i < 5; i++ {
		sig = s.Evaluate(book, suite.flatBar("AAPL", i, 100.0))
	}
	suite.Equal(types.DirectionNeutral, sig.Direction)

	// Two rising bars lift the tenkan midpoint through the kijun.
	s.Evaluate(book, suite.flatBar("AAPL", 5, 110.0))
	sig = s.Evaluate(book, suite.flatBar("AAPL", 6, 110.0))
	suite.Equal(types.DirectionLong, sig.Direction)
	suite.Contains(sig.Reason, "crossed above")
}

func (suite *StrategyTestSuite) TestDistressDrawdownOpensShort() {
	s := NewDistress(5, 0.2)
	book := stubBook{}

	for i := 0; i < 4; i++ {
		sig := s.Evaluate(book, suite.flatBar("AAPL", i, 100.0))
		suite.Equal(types.DirectionNeutral, sig.Direction)
	}

	// A 30% fall from the rolling peak with a deep z-score marks distress.
	sig := s.Evaluate(book, suite.flatBar("AAPL", 4, 70.0))
	suite.Equal(types.DirectionShort, sig.Direction)
	suite.False(sig.Exit)
	suite.Contains(sig.Reason, "drawdown 30.0%")
}

func (suite *StrategyTestSuite) TestCCIZeroMeanDeviationIsGuarded() {
	s := NewCCI(20)
	book := stubBook{}

	var sig types.Signal
	for i := 0; i < 20; i++ {
		sig = s.Evaluate(book, suite.flatBar("AAPL", i, 100.0))
	}

	suite.Equal(types.DirectionNeutral, sig.Direction)
	suite.Equal("mean deviation is zero", sig.Reason)
	suite.Zero(sig.Confidence)
}

func (suite *StrategyTestSuite) TestDCAIntervalTiming() {
	s := NewDCA(30*time.Minute, 10, decimal.NewFromInt(100))
	book := stubBook{"AAPL": 0}

	first := s.Evaluate(book, suite.flatBar("AAPL", 0, 100.0))
	suite.Equal(types.DirectionLong, first.Direction)
	suite.InDelta(1.0, first.Confidence, 1e-9)
	suite.Contains(first.Reason, "100.00")

	// 10 minutes later the purchase window is still closed.
	second := s.Evaluate(book, suite.flatBar("AAPL", 10, 100.0))
	suite.Equal(types.DirectionNeutral, second.Direction)
	suite.Equal("next purchase in 20 minutes", second.Reason)

	// After the interval elapses the next purchase fires.
	third := s.Evaluate(book, suite.flatBar("AAPL", 30, 100.0))
	suite.Equal(types.DirectionLong, third.Direction)
}

func (suite *StrategyTestSuite) TestDCATargetReached() {
	s := NewDCA(30*time.Minute, 10, decimal.NewFromInt(100))
	book := stubBook{"AAPL": 10}

	sig := s.Evaluate(book, suite.flatBar("AAPL", 0, 100.0))
	suite.Equal(types.DirectionNeutral, sig.Direction)
	suite.Equal("target position 10 reached", sig.Reason)
}

func (suite *StrategyTestSuite) TestWarmUpProgressionIsDeterministic() {
	s := NewSMACross(2, 3)
	book := stubBook{}

	sig := s.Evaluate(book, suite.flatBar("AAPL", 0, 100.0))
	suite.Equal("warming up (1/3 bars)", sig.Reason)

	sig = s.Evaluate(book, suite.flatBar("AAPL", 1, 101.0))
	suite.Equal("warming up (2/3 bars)", sig.Reason)

	sig = s.Evaluate(book, suite.flatBar("AAPL", 2, 102.0))
	suite.Equal(types.DirectionNeutral, sig.Direction)
	suite.Contains(sig.Reason, "awaiting crossover baseline")
}

func (suite *StrategyTestSuite) TestPerSymbolIsolation() {
	s := NewSMACross(2, 3)
	book := stubBook{}

	for i := 0; i < 5; i++ {
		s.Evaluate(book, suite.flatBar("AAPL", i, 100.0+float64(i)))
	}

	// A fresh symbol starts its own warm-up regardless of AAPL history.
	sig := s.Evaluate(book, suite.flatBar("MSFT", 0, 50.0))
	suite.Equal("warming up (1/3 bars)", sig.Reason)
}

func (suite *StrategyTestSuite) TestResetReplaysIdentically() {
	feed := func(s Strategy) []types.Signal {
		book := stubBook{}
		prices := []float64{100, 101, 99, 102, 98, 103, 104, 97, 105, 101}
		signals := make([]types.Signal, 0, len(prices))

		for i, p := range prices {
			signals = append(signals, s.Evaluate(book, suite.flatBar("AAPL", i, p)))
		}

		return signals
	}

	s := NewMomentum(5, 1.5)
	before := feed(s)
	s.Reset()
	after := feed(s)

	suite.Equal(before, after)
}

func (suite *StrategyTestSuite) TestMomentumZeroVarianceIsGuarded() {
	s := NewMomentum(5, 1.5)
	book := stubBook{}

	var sig types.Signal
	for i := 0; i < 5; i++ {
		sig = s.Evaluate(book, suite.flatBar("AAPL", i, 100.0))
	}

	suite.Equal(types.DirectionNeutral, sig.Direction)
	suite.Equal("zero variance in lookback window", sig.Reason)
}

func (suite *StrategyTestSuite) TestInvalidBarAnswersNoMarketData() {
	book := stubBook{}
	bad := types.Bar{Symbol: "", Time: suite.base, Close: 100}

	for _, s := range []Strategy{NewDonchian(20), NewCCI(20), NewPinBar(0), NewGap(0)} {
		sig := s.Evaluate(book, bad)
		suite.Equal(types.DirectionNeutral, sig.Direction)
		suite.Equal("no market data", sig.Reason)
	}
}

func (suite *StrategyTestSuite) TestGapFadesOpenGapUp() {
	s := NewGap(0.02)
	book := stubBook{}

	s.Evaluate(book, suite.flatBar("AAPL", 0, 100.0))

	// Next bar opens 5% above the previous close.
	sig := s.Evaluate(book, suite.bar("AAPL", 1, 105.0, 106.0, 104.0, 105.5))
	suite.Equal(types.DirectionShort, sig.Direction)
	suite.Contains(sig.Reason, "gap up")
}

func (suite *StrategyTestSuite) TestSeasonalEntersOnFavorableMonth() {
	s := NewSeasonal([]time.Month{time.January})
	book := stubBook{}

	sig := s.Evaluate(book, suite.flatBar("AAPL", 0, 100.0))
	suite.Equal(types.DirectionLong, sig.Direction)

	// Subsequent bars in the same month hold rather than re-signal.
	sig = s.Evaluate(book, suite.flatBar("AAPL", 1, 101.0))
	suite.Equal(types.DirectionNeutral, sig.Direction)
	suite.Contains(sig.Reason, "holding through favorable")
}

func (suite *StrategyTestSuite) TestEngulfingDetectsBullishPattern() {
	s := NewEngulfing()
	book := stubBook{}

	s.Evaluate(book, suite.bar("AAPL", 0, 101.0, 101.5, 99.5, 100.0)) // down bar
	sig := s.Evaluate(book, suite.bar("AAPL", 1, 99.8, 102.0, 99.5, 101.5))

	suite.Equal(types.DirectionLong, sig.Direction)
	suite.Contains(sig.Reason, "bullish engulfing")
}

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestEveryRegisteredNameConstructs() {
	for _, name := range Names() {
		s, err := New(name, Params{})
		suite.Require().NoError(err, "strategy %s", name)
		suite.Require().NotNil(s, "strategy %s", name)
		suite.NotEmpty(s.Name())
		suite.Contains(types.AllClassifications, string(s.Classification()))
	}
}

func (suite *RegistryTestSuite) TestUnknownNameIsRejected() {
	_, err := New("does_not_exist", Params{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownStrategy))
}

func (suite *RegistryTestSuite) TestDCAValidation() {
	_, err := New("dca", Params{Interval: -time.Minute})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInterval))

	_, err = New("dca", Params{Budget: decimal.NewFromInt(-1)})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// collector is a concurrency-safe sink that records signals per symbol.
type collector struct {
	mu      sync.Mutex
	signals map[string][]types.Signal
}

func newCollector() *collector {
	return &collector{signals: make(map[string][]types.Signal)}
}

func (c *collector) sink(signal types.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.signals[signal.Symbol] = append(c.signals[signal.Symbol], signal)
}

func (c *collector) bySymbol(symbol string) []types.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.Signal, len(c.signals[symbol]))
	copy(out, c.signals[symbol])

	return out
}

type EngineTestSuite struct {
	suite.Suite
	log  *logger.Logger
	base time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.log = &logger.Logger{Logger: zap.NewNop()}
	suite.base = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
}

func (suite *EngineTestSuite) bar(symbol string, i int, price float64) types.Bar {
	return types.Bar{
		Symbol: symbol,
		Time:   suite.base.Add(time.Duration(i) * time.Minute),
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: 1000,
	}
}

func (suite *EngineTestSuite) newEngine(sink Sink, strategies ...strategy.Strategy) *Engine {
	if len(strategies) == 0 {
		strategies = []strategy.Strategy{strategy.NewDonchian(5)}
	}

	e, err := New(suite.log, nil, strategies, sink)
	suite.Require().NoError(err)

	return e
}

func (suite *EngineTestSuite) TestNewValidation() {
	donchian := strategy.NewDonchian(5)

	_, err := New(suite.log, nil, []strategy.Strategy{donchian}, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEngineNoSink))

	_, err = New(suite.log, nil, nil, func(types.Signal) {})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoStrategiesConfigured))

	_, err = New(suite.log, nil, []strategy.Strategy{donchian, strategy.NewDonchian(5)}, func(types.Signal) {})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateStrategy))
}

func (suite *EngineTestSuite) TestBarsForOneSymbolStayOrdered() {
	c := newCollector()
	e := suite.newEngine(c.sink)

	defer e.Close()

	for i := 0; i < 5; i++ {
		suite.Require().NoError(e.Submit(suite.bar("AAPL", i, 100.0+float64(i))))
	}

	e.Drain()

	signals := c.bySymbol("AAPL")
	suite.Require().Len(signals, 5)

	for i, sig := range signals {
		suite.Equal(fmt.Sprintf("warming up (%d/5 bars)", i+1), sig.Reason)
	}
}

func (suite *EngineTestSuite) TestSymbolsEvaluateIndependently() {
	c := newCollector()
	e := suite.newEngine(c.sink)

	defer e.Close()

	symbols := []string{"AAPL", "MSFT", "NVDA"}
	for i := 0; i < 5; i++ {
		for _, symbol := range symbols {
			suite.Require().NoError(e.Submit(suite.bar(symbol, i, 100.0)))
		}
	}

	e.Drain()

	for _, symbol := range symbols {
		signals := c.bySymbol(symbol)
		suite.Require().Len(signals, 5, "symbol %s", symbol)
		suite.Equal("warming up (1/5 bars)", signals[0].Reason)
		suite.Equal("warming up (5/5 bars)", signals[4].Reason)
	}
}

func (suite *EngineTestSuite) TestEachStrategySeesEveryBar() {
	c := newCollector()
	e := suite.newEngine(c.sink, strategy.NewDonchian(5), strategy.NewCCI(5))

	defer e.Close()

	suite.Require().NoError(e.Submit(suite.bar("AAPL", 0, 100.0)))
	e.Drain()

	signals := c.bySymbol("AAPL")
	suite.Require().Len(signals, 2)

	names := []string{signals[0].Strategy, signals[1].Strategy}
	suite.Contains(names, "donchian_5")
	suite.Contains(names, "cci_5")
}

func (suite *EngineTestSuite) TestResetReturnsToWarmUp() {
	c := newCollector()
	e := suite.newEngine(c.sink)

	defer e.Close()

	for i := 0; i < 5; i++ {
		suite.Require().NoError(e.Submit(suite.bar("AAPL", i, 100.0)))
	}

	e.Reset()

	suite.Require().NoError(e.Submit(suite.bar("AAPL", 5, 100.0)))
	e.Drain()

	signals := c.bySymbol("AAPL")
	suite.Require().Len(signals, 6)
	suite.Equal("warming up (1/5 bars)", signals[5].Reason)
}

func (suite *EngineTestSuite) TestStrategyReceivesPositionBook() {
	ctrl := gomock.NewController(suite.T())
	book := mocks.NewMockPositionView(ctrl)
	mockStrategy := mocks.NewMockStrategy(ctrl)

	bar := suite.bar("AAPL", 0, 100.0)

	mockStrategy.EXPECT().Name().Return("mock_strategy").AnyTimes()
	book.EXPECT().Position("AAPL").Return(3)
	mockStrategy.EXPECT().Evaluate(book, bar).DoAndReturn(
		func(b types.PositionView, in types.Bar) types.Signal {
			// A held position suppresses the open the strategy would emit.
			if b.Position(in.Symbol) > 0 {
				return types.Signal{
					Time:      in.Time,
					Symbol:    in.Symbol,
					Strategy:  "mock_strategy",
					Direction: types.DirectionNeutral,
					Reason:    "already long",
				}
			}

			return types.Signal{
				Time:      in.Time,
				Symbol:    in.Symbol,
				Strategy:  "mock_strategy",
				Direction: types.DirectionLong,
			}
		})

	c := newCollector()
	e, err := New(suite.log, book, []strategy.Strategy{mockStrategy}, c.sink)
	suite.Require().NoError(err)

	suite.Require().NoError(e.Submit(bar))
	e.Close()

	signals := c.bySymbol("AAPL")
	suite.Require().Len(signals, 1)
	suite.Equal(types.DirectionNeutral, signals[0].Direction)
	suite.Equal("already long", signals[0].Reason)
}

func (suite *EngineTestSuite) TestCloseRejectsFurtherBars() {
	c := newCollector()
	e := suite.newEngine(c.sink)

	suite.Require().NoError(e.Submit(suite.bar("AAPL", 0, 100.0)))
	e.Close()
	e.Close() // idempotent

	err := e.Submit(suite.bar("AAPL", 1, 100.0))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEngineClosed))
	suite.Len(c.bySymbol("AAPL"), 1)
}

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

type StoreTestSuite struct {
	suite.Suite
	store *SignalStore
	base  time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	log := &logger.Logger{Logger: zap.NewNop()}

	store, err := Open(":memory:", log)
	suite.Require().NoError(err)
	suite.store = store
	suite.base = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.Require().NoError(suite.store.Close())
}

func (suite *StoreTestSuite) signal(i int, symbol, strategy string, dir types.Direction) types.Signal {
	sig := types.Signal{
		Time:      suite.base.Add(time.Duration(i) * time.Minute),
		Symbol:    symbol,
		Strategy:  strategy,
		Direction: dir,
		Reason:    "test",
	}
	if dir != types.DirectionNeutral {
		sig.Confidence = 0.8
	}

	return sig
}

func (suite *StoreTestSuite) TestWriteAndQuery() {
	id, err := suite.store.Write(suite.signal(0, "AAPL", "donchian_20", types.DirectionLong))
	suite.Require().NoError(err)
	suite.NotEmpty(id)

	_, err = suite.store.Write(suite.signal(1, "MSFT", "donchian_20", types.DirectionNeutral))
	suite.Require().NoError(err)

	all, err := suite.store.Query("", "", false)
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.Equal("AAPL", all[0].Symbol)
	suite.Equal(types.DirectionLong, all[0].Direction)
	suite.InDelta(0.8, all[0].Confidence, 1e-9)

	count, err := suite.store.Count()
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *StoreTestSuite) TestQueryFilters() {
	suite.Require().NoError(writeAll(suite.store,
		suite.signal(0, "AAPL", "donchian_20", types.DirectionLong),
		suite.signal(1, "AAPL", "cci_20", types.DirectionNeutral),
		suite.signal(2, "MSFT", "donchian_20", types.DirectionShort),
	))

	bySymbol, err := suite.store.Query("AAPL", "", false)
	suite.Require().NoError(err)
	suite.Len(bySymbol, 2)

	byStrategy, err := suite.store.Query("", "donchian_20", false)
	suite.Require().NoError(err)
	suite.Len(byStrategy, 2)

	actionable, err := suite.store.Query("AAPL", "", true)
	suite.Require().NoError(err)
	suite.Require().Len(actionable, 1)
	suite.Equal(types.DirectionLong, actionable[0].Direction)
}

func (suite *StoreTestSuite) TestQueryReturnsTimeOrder() {
	suite.Require().NoError(writeAll(suite.store,
		suite.signal(5, "AAPL", "donchian_20", types.DirectionLong),
		suite.signal(1, "AAPL", "donchian_20", types.DirectionShort),
		suite.signal(3, "AAPL", "donchian_20", types.DirectionNeutral),
	))

	all, err := suite.store.Query("AAPL", "", false)
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.True(all[0].Time.Before(all[1].Time))
	suite.True(all[1].Time.Before(all[2].Time))
}

func (suite *StoreTestSuite) TestClosedStoreRejectsUse() {
	suite.Require().NoError(suite.store.Close())

	_, err := suite.store.Write(suite.signal(0, "AAPL", "donchian_20", types.DirectionLong))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStoreUnavailable))

	// Reopen so TearDownTest's Close stays a no-op.
	log := &logger.Logger{Logger: zap.NewNop()}
	store, err := Open(":memory:", log)
	suite.Require().NoError(err)
	suite.store = store
}

func writeAll(store *SignalStore, signals ...types.Signal) error {
	for _, sig := range signals {
		if _, err := store.Write(sig); err != nil {
			return err
		}
	}

	return nil
}

package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseFullConfig() {
	raw := `
version: v1.0.0
symbols:
  - AAPL
  - MSFT
strategies:
  - name: donchian
    params:
      period: 20
  - name: dca
    params:
      interval: 30m
      target_position: 10
      budget: "250.50"
store:
  path: signals.duckdb
server:
  listen: 127.0.0.1:8080
`

	cfg, err := Parse([]byte(raw))
	suite.Require().NoError(err)

	suite.Equal([]string{"AAPL", "MSFT"}, cfg.Symbols)
	suite.Require().Len(cfg.Strategies, 2)
	suite.Equal("donchian", cfg.Strategies[0].Name)
	suite.Equal(20, cfg.Strategies[0].Params.Period)
	suite.Equal(30*time.Minute, cfg.Strategies[1].Params.Interval)
	suite.True(cfg.Strategies[1].Params.Budget.Equal(decimal.RequireFromString("250.50")))
	suite.Equal("signals.duckdb", cfg.Store.Path)
	suite.Equal("127.0.0.1:8080", cfg.Server.Listen)

	strategies, err := cfg.BuildStrategies()
	suite.Require().NoError(err)
	suite.Len(strategies, 2)
	suite.Equal("donchian_20", strategies[0].Name())
}

func (suite *ConfigTestSuite) TestParseRejectsMissingStrategies() {
	_, err := Parse([]byte("version: v1.0.0\nstrategies: []\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestParseRejectsMissingVersion() {
	_, err := Parse([]byte("strategies:\n  - name: donchian\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestParseRejectsIncompatibleVersion() {
	_, err := Parse([]byte("version: v2.0.0\nstrategies:\n  - name: donchian\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))
}

func (suite *ConfigTestSuite) TestParseRejectsBadInterval() {
	raw := `
version: v1.0.0
strategies:
  - name: dca
    params:
      interval: soon
`
	_, err := Parse([]byte(raw))
	suite.Require().Error(err)
}

func (suite *ConfigTestSuite) TestBuildStrategiesRejectsUnknownName() {
	cfg, err := Parse([]byte("version: v1.0.0\nstrategies:\n  - name: nope\n"))
	suite.Require().NoError(err)

	_, err = cfg.BuildStrategies()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownStrategy))
}

func (suite *ConfigTestSuite) TestBuildStrategiesRejectsDuplicates() {
	raw := `
version: v1.0.0
strategies:
  - name: donchian
    params:
      period: 20
  - name: donchian
    params:
      period: 20
`
	cfg, err := Parse([]byte(raw))
	suite.Require().NoError(err)

	_, err = cfg.BuildStrategies()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateStrategy))
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	schema, err := GenerateSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "strategies")
	suite.Contains(schema, "Config Version")
}

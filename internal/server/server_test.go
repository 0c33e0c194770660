package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/store"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

type ServerTestSuite struct {
	suite.Suite
	store  *store.SignalStore
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	log := &logger.Logger{Logger: zap.NewNop()}

	signalStore, err := store.Open(":memory:", log)
	suite.Require().NoError(err)
	suite.store = signalStore

	suite.server = New(log, signalStore)
	suite.Require().NoError(suite.server.Start("127.0.0.1:0"))
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.Require().NoError(suite.server.Stop())
	suite.Require().NoError(suite.store.Close())
}

func (suite *ServerTestSuite) baseURL() string {
	return "http://" + suite.server.Address()
}

func (suite *ServerTestSuite) writeSignal(symbol, strategy string, direction types.Direction) {
	_, err := suite.store.Write(types.Signal{
		Time:       time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		Symbol:     symbol,
		Strategy:   strategy,
		Direction:  direction,
		Confidence: 0.8,
		Reason:     "test signal",
	})
	suite.Require().NoError(err)
}

func (suite *ServerTestSuite) getJSON(path string, out any) int {
	resp, err := http.Get(suite.baseURL() + path)
	suite.Require().NoError(err)

	defer resp.Body.Close()
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))

	return resp.StatusCode
}

func (suite *ServerTestSuite) TestHealth() {
	var body map[string]string
	status := suite.getJSON("/api/v1/health", &body)

	suite.Equal(http.StatusOK, status)
	suite.Equal("ok", body["status"])
	suite.NotEmpty(body["version"])
}

func (suite *ServerTestSuite) TestSignalsQueryFilters() {
	suite.writeSignal("AAPL", "donchian_20", types.DirectionLong)
	suite.writeSignal("AAPL", "cci_5", types.DirectionNeutral)
	suite.writeSignal("MSFT", "donchian_20", types.DirectionShort)

	var all []store.StoredSignal
	status := suite.getJSON("/api/v1/signals", &all)
	suite.Equal(http.StatusOK, status)
	suite.Len(all, 3)

	var apple []store.StoredSignal
	suite.getJSON("/api/v1/signals?symbol=AAPL", &apple)
	suite.Len(apple, 2)

	var actionable []store.StoredSignal
	suite.getJSON("/api/v1/signals?symbol=AAPL&actionable=true", &actionable)
	suite.Require().Len(actionable, 1)
	suite.Equal(types.DirectionLong, actionable[0].Direction)
}

func (suite *ServerTestSuite) TestSignalsEmptyStoreReturnsEmptyList() {
	var signals []store.StoredSignal
	status := suite.getJSON("/api/v1/signals", &signals)

	suite.Equal(http.StatusOK, status)
	suite.NotNil(signals)
	suite.Empty(signals)
}

func (suite *ServerTestSuite) TestCount() {
	suite.writeSignal("AAPL", "donchian_20", types.DirectionLong)
	suite.writeSignal("MSFT", "cci_5", types.DirectionNeutral)

	var body map[string]int
	status := suite.getJSON("/api/v1/signals/count", &body)

	suite.Equal(http.StatusOK, status)
	suite.Equal(2, body["count"])
}

func (suite *ServerTestSuite) TestWebSocketBroadcast() {
	url := fmt.Sprintf("ws://%s/ws/signals", suite.server.Address())

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)

	defer resp.Body.Close()
	defer conn.Close()

	sent := types.Signal{
		Time:       time.Date(2024, 1, 2, 9, 31, 0, 0, time.UTC),
		Symbol:     "AAPL",
		Strategy:   "donchian_20",
		Direction:  types.DirectionLong,
		Confidence: 0.8,
		Reason:     "price 121.0000 broke above channel high 120.0000",
	}

	// The dial can return before the handler registers the connection, so
	// wait for registration before broadcasting.
	suite.Require().Eventually(func() bool {
		suite.server.wsMu.Lock()
		defer suite.server.wsMu.Unlock()

		return len(suite.server.wsConnections) == 1
	}, 2*time.Second, 10*time.Millisecond)

	suite.server.Broadcast(sent)

	suite.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))

	var received types.Signal
	suite.Require().NoError(conn.ReadJSON(&received))
	suite.Equal(sent.Symbol, received.Symbol)
	suite.Equal(sent.Strategy, received.Strategy)
	suite.Equal(sent.Direction, received.Direction)
	suite.InDelta(sent.Confidence, received.Confidence, 1e-9)
}

func (suite *ServerTestSuite) TestBroadcastWithoutClientsIsSafe() {
	suite.server.Broadcast(types.Signal{Symbol: "AAPL", Direction: types.DirectionNeutral})
}

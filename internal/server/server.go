// Package server exposes stored signals over HTTP and streams live signals
// over WebSocket. It is the read side of the engine: the engine's sink feeds
// Broadcast, and query endpoints go straight to the signal store.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/store"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/internal/version"
)

// Server serves signal queries and live signal streams.
type Server struct {
	logger *logger.Logger
	store  *store.SignalStore

	upgrader websocket.Upgrader

	wsMu          sync.Mutex
	wsConnections map[*websocket.Conn]bool

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server over the given store. The store may be nil, in which
// case query endpoints report the store as unavailable but live streaming
// still works.
func New(log *logger.Logger, signalStore *store.SignalStore) *Server {
	return &Server{
		logger: log,
		store:  signalStore,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		wsConnections: make(map[*websocket.Conn]bool),
	}
}

// Router builds the HTTP routes. Exposed so tests can drive the server with
// httptest instead of a real listener.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/v1/signals", s.handleSignals).Methods("GET")
	router.HandleFunc("/api/v1/signals/count", s.handleCount).Methods("GET")
	router.HandleFunc("/ws/signals", s.handleWebSocket)

	return router
}

// Start listens on address and serves in the background. Use ":0" for a
// random port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	s.logger.Info("signal server listening", zap.String("address", s.Address()))

	return nil
}

// Stop closes all WebSocket connections and shuts down the HTTP server.
func (s *Server) Stop() error {
	s.wsMu.Lock()
	for conn := range s.wsConnections {
		conn.Close()
	}
	s.wsConnections = make(map[*websocket.Conn]bool)
	s.wsMu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the listen address, empty before Start.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Broadcast sends a signal to every connected WebSocket client. It satisfies
// the engine's sink signature, so it can be composed with the store writer.
// Connections that fail to accept the write are dropped.
func (s *Server) Broadcast(signal types.Signal) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for conn := range s.wsConnections {
		if err := conn.WriteJSON(signal); err != nil {
			s.logger.Debug("dropping websocket client", zap.Error(err))
			conn.Close()
			delete(s.wsConnections, conn)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "signal store is not configured")
		return
	}

	query := r.URL.Query()
	actionableOnly := query.Get("actionable") == "true"

	signals, err := s.store.Query(query.Get("symbol"), query.Get("strategy"), actionableOnly)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if signals == nil {
		signals = []store.StoredSignal{}
	}

	s.writeJSON(w, http.StatusOK, signals)
}

func (s *Server) handleCount(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "signal store is not configured")
		return
	}

	count, err := s.store.Count()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.wsMu.Lock()
	s.wsConnections[conn] = true
	s.wsMu.Unlock()

	s.logger.Debug("websocket client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Reads are discarded; the read loop only notices disconnects.
	go func() {
		defer func() {
			s.wsMu.Lock()
			delete(s.wsConnections, conn)
			s.wsMu.Unlock()
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

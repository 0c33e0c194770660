// Package store persists emitted signals in DuckDB so replay runs can be
// inspected and live runs audited after the fact.
package store

import (
	"database/sql"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// StoredSignal is a persisted signal with its assigned id.
type StoredSignal struct {
	ID string
	types.Signal
}

// SignalStore writes signals to a DuckDB database. Use ":memory:" as the
// path for an ephemeral store.
type SignalStore struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// Open creates or opens the signal database at path and ensures the schema.
func Open(path string, log *logger.Logger) (*SignalStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreUnavailable, err, "failed to open signal store %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			id TEXT PRIMARY KEY,
			time TIMESTAMP,
			symbol TEXT,
			strategy TEXT,
			direction TEXT,
			confidence DOUBLE,
			reason TEXT,
			is_exit BOOLEAN
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create signals table", err)
	}

	log.Debug("opened signal store", zap.String("path", path))

	return &SignalStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Write persists one signal and returns its assigned id.
func (s *SignalStore) Write(signal types.Signal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return "", errors.New(errors.ErrCodeStoreUnavailable, "signal store is closed")
	}

	id := uuid.New().String()

	query, args, err := s.sq.
		Insert("signals").
		Columns("id", "time", "symbol", "strategy", "direction", "confidence", "reason", "is_exit").
		Values(id, signal.Time, signal.Symbol, signal.Strategy,
			string(signal.Direction), signal.Confidence, signal.Reason, signal.Exit).
		ToSql()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to build insert", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return "", errors.Wrapf(errors.ErrCodeStoreWriteFailed, err, "failed to write signal for %s", signal.Symbol)
	}

	return id, nil
}

// Query filters stored signals. Empty symbol or strategy match everything;
// actionableOnly drops neutral signals. Results come back in time order.
func (s *SignalStore) Query(symbol, strategy string, actionableOnly bool) ([]StoredSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "signal store is closed")
	}

	builder := s.sq.
		Select("id", "time", "symbol", "strategy", "direction", "confidence", "reason", "is_exit").
		From("signals").
		OrderBy("time ASC")

	if symbol != "" {
		builder = builder.Where(squirrel.Eq{"symbol": symbol})
	}

	if strategy != "" {
		builder = builder.Where(squirrel.Eq{"strategy": strategy})
	}

	if actionableOnly {
		builder = builder.Where(squirrel.NotEq{"direction": string(types.DirectionNeutral)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to build query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query signals", err)
	}
	defer rows.Close()

	var out []StoredSignal

	for rows.Next() {
		var (
			stored    StoredSignal
			ts        time.Time
			direction string
		)

		if err := rows.Scan(&stored.ID, &ts, &stored.Symbol, &stored.Strategy,
			&direction, &stored.Confidence, &stored.Reason, &stored.Exit); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan signal", err)
		}

		stored.Time = ts
		stored.Direction = types.Direction(direction)
		out = append(out, stored)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to iterate signals", err)
	}

	return out, nil
}

// Count returns the number of stored signals.
func (s *SignalStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, errors.New(errors.ErrCodeStoreUnavailable, "signal store is closed")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM signals").Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to count signals", err)
	}

	return count, nil
}

// Close releases the database. Close is idempotent.
func (s *SignalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to close signal store", err)
	}

	return nil
}

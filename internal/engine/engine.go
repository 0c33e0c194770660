// Package engine routes incoming bars to per-symbol workers and runs every
// configured strategy against each bar. One goroutine owns each symbol, so
// two symbols never contend while bars for the same symbol stay ordered.
package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Sink receives every signal the engine produces. It is called from worker
// goroutines and must be safe for concurrent use.
type Sink func(signal types.Signal)

// barQueueSize bounds how far a symbol's feed can run ahead of evaluation.
const barQueueSize = 64

// Engine is the per-symbol dispatcher.
type Engine struct {
	logger     *logger.Logger
	strategies []strategy.Strategy
	book       types.PositionView
	sink       Sink

	// lifecycle serializes Submit against Reset and Close.
	lifecycle sync.RWMutex
	closed    bool

	workersMu sync.Mutex
	workers   map[string]chan types.Bar
	running   sync.WaitGroup // worker goroutines
	pending   sync.WaitGroup // bars submitted but not yet evaluated
}

// New creates an engine over the given strategies. Strategy names must be
// unique so downstream consumers can key on them.
func New(log *logger.Logger, book types.PositionView, strategies []strategy.Strategy, sink Sink) (*Engine, error) {
	if sink == nil {
		return nil, errors.New(errors.ErrCodeEngineNoSink, "engine requires a signal sink")
	}

	if len(strategies) == 0 {
		return nil, errors.New(errors.ErrCodeNoStrategiesConfigured, "engine requires at least one strategy")
	}

	seen := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		if seen[s.Name()] {
			return nil, errors.Newf(errors.ErrCodeDuplicateStrategy, "duplicate strategy %q", s.Name())
		}

		seen[s.Name()] = true
	}

	if book == nil {
		book = types.FlatBook{}
	}

	return &Engine{
		logger:     log,
		strategies: strategies,
		book:       book,
		sink:       sink,
		workers:    make(map[string]chan types.Bar),
	}, nil
}

// Submit hands a bar to the symbol's worker, starting the worker on first
// use. Bars for different symbols never block each other; bars for the same
// symbol are evaluated in submission order.
func (e *Engine) Submit(bar types.Bar) error {
	e.lifecycle.RLock()
	defer e.lifecycle.RUnlock()

	if e.closed {
		return errors.Newf(errors.ErrCodeEngineClosed, "engine is closed, dropping bar for %s", bar.Symbol)
	}

	e.pending.Add(1)
	e.workerFor(bar.Symbol) <- bar

	return nil
}

func (e *Engine) workerFor(symbol string) chan types.Bar {
	e.workersMu.Lock()
	defer e.workersMu.Unlock()

	ch, ok := e.workers[symbol]
	if !ok {
		ch = make(chan types.Bar, barQueueSize)
		e.workers[symbol] = ch
		e.running.Add(1)

		go e.run(symbol, ch)

		e.logger.Debug("started symbol worker", zap.String("symbol", symbol))
	}

	return ch
}

func (e *Engine) run(symbol string, bars <-chan types.Bar) {
	defer e.running.Done()

	for bar := range bars {
		for _, s := range e.strategies {
			e.sink(s.Evaluate(e.book, bar))
		}

		e.pending.Done()
	}

	e.logger.Debug("stopped symbol worker", zap.String("symbol", symbol))
}

// Drain blocks until every submitted bar has been evaluated.
func (e *Engine) Drain() {
	e.pending.Wait()
}

// Reset returns every strategy to warm-up. It is a full barrier: new
// submissions block, in-flight bars finish evaluating, and only then is
// state cleared. No evaluation observes partially cleared state.
func (e *Engine) Reset() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.pending.Wait()

	for _, s := range e.strategies {
		s.Reset()
	}

	e.logger.Info("engine reset", zap.Int("strategies", len(e.strategies)))
}

// Close drains outstanding bars and stops all workers. Submissions after
// Close are rejected. Close is idempotent.
func (e *Engine) Close() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.closed {
		return
	}

	e.closed = true
	e.pending.Wait()

	e.workersMu.Lock()
	for _, ch := range e.workers {
		close(ch)
	}
	e.workersMu.Unlock()

	e.running.Wait()
	e.logger.Info("engine closed")
}

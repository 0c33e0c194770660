package strategy

import "sync"

// table is the per-strategy state table keyed by symbol. Each symbol's state
// bundle sits behind its own mutex so bars for different symbols never block
// each other, while two bars for the same symbol are serialized.
//
// Reset acquires the table write lock and then every entry lock, so it acts
// as a full barrier: no in-flight evaluation can observe a half-cleared
// bundle.
type table[S any] struct {
	mu      sync.RWMutex
	entries map[string]*tableEntry[S]
}

type tableEntry[S any] struct {
	mu    sync.Mutex
	state S
}

func newTable[S any]() *table[S] {
	return &table[S]{
		entries: make(map[string]*tableEntry[S]),
	}
}

// with runs fn with exclusive access to the symbol's state bundle, creating
// the bundle lazily on first use.
func (t *table[S]) with(symbol string, fn func(state *S)) {
	t.mu.RLock()
	e, ok := t.entries[symbol]
	t.mu.RUnlock()

	if !ok {
		t.mu.Lock()
		e, ok = t.entries[symbol]
		if !ok {
			e = &tableEntry[S]{}
			t.entries[symbol] = e
		}
		t.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fn(&e.state)
}

// reset drops every symbol's state. It waits for in-flight holders of each
// entry before discarding the map.
func (t *table[S]) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Drain evaluations that already hold an entry; new ones are blocked on
	// the table lock above.
	for _, e := range t.entries {
		e.mu.Lock()
		e.mu.Unlock() //nolint:staticcheck // lock/unlock pairs drain in-flight holders
	}

	t.entries = make(map[string]*tableEntry[S])
}

// Package buffer provides the bounded sliding window primitive every
// strategy uses to cap per-symbol memory.
package buffer

// Rolling is a fixed-capacity, insertion-ordered sequence with FIFO
// eviction. It is used both for scalar series (prices, typical prices,
// on-balance volume) and for short windows of full bars in pattern
// strategies. The zero value is not usable; construct with NewRolling.
//
// Rolling is not safe for concurrent use; callers serialize access per
// (strategy, symbol) pair.
type Rolling[T any] struct {
	capacity int
	values   []T
}

// NewRolling creates a rolling window holding at most capacity elements.
// A non-positive capacity falls back to 1.
func NewRolling[T any](capacity int) *Rolling[T] {
	if capacity <= 0 {
		capacity = 1
	}

	return &Rolling[T]{
		capacity: capacity,
		values:   make([]T, 0, capacity),
	}
}

// Push appends a value, evicting the oldest element once capacity is
// exceeded.
func (r *Rolling[T]) Push(v T) {
	r.values = append(r.values, v)
	if len(r.values) > r.capacity {
		// Shift instead of re-slicing so the backing array never grows
		// beyond capacity+1.
		copy(r.values, r.values[1:])
		r.values = r.values[:r.capacity]
	}
}

// Len returns the number of stored elements.
func (r *Rolling[T]) Len() int {
	return len(r.values)
}

// Full reports whether the window has reached capacity.
func (r *Rolling[T]) Full() bool {
	return len(r.values) == r.capacity
}

// Values returns an ordered copy of the window, oldest first. Indicator
// functions operate on this snapshot so they never observe a mutating
// window.
func (r *Rolling[T]) Values() []T {
	out := make([]T, len(r.values))
	copy(out, r.values)

	return out
}

// Last returns the most recent element and whether one exists.
func (r *Rolling[T]) Last() (T, bool) {
	var zero T
	if len(r.values) == 0 {
		return zero, false
	}

	return r.values[len(r.values)-1], true
}

// Clear removes all elements, returning the window to its warm-up state.
func (r *Rolling[T]) Clear() {
	r.values = r.values[:0]
}

package lazy

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Concurrent is a lazy value that is safe for concurrent use.
//
// The supplier runs under a mutex, so at most one goroutine runs it at a
// time and it succeeds at most once. Goroutines that arrive while a run is
// in flight block until it finishes. Once a run succeeds the result is
// published through an atomic pointer and every later Get returns it
// without locking.
//
// When a run fails, only the goroutine that ran the supplier sees the error.
// Goroutines blocked on that run take the lock one after another and each
// retries the supplier itself, so a waiter observes either a value or the
// failure of its own attempt, never another goroutine's error.
//
// Calling Get on the same Concurrent from inside its supplier deadlocks.
type Concurrent[T any] struct {
	id   string
	opts *options

	// result is nil until a supplier run succeeds. The computed value is
	// fully written before the pointer is stored, so a reader that loads a
	// non-nil pointer sees the complete value.
	result atomic.Pointer[computed[T]]

	// computing is set while a supplier run is in flight. Only for State.
	computing atomic.Bool

	// mu serializes check-compute-publish. supplier is guarded by mu.
	mu       sync.Mutex
	supplier Supplier[T]
}

// NewConcurrent returns a concurrency-safe lazy value that calls supplier on
// the first Get. It fails with ErrInvalidArgument if supplier is nil.
func NewConcurrent[T any](supplier Supplier[T], opts ...Option) (*Concurrent[T], error) {
	if supplier == nil {
		return nil, nilSupplierError(variantConcurrent)
	}
	return &Concurrent[T]{
		id:       uuid.NewString(),
		opts:     newOptions(opts),
		supplier: supplier,
	}, nil
}

// Get returns the memoized value, running the supplier if no run has
// succeeded yet.
func (l *Concurrent[T]) Get() (T, error) {
	if res := l.result.Load(); res != nil {
		return res.value, nil
	}
	return l.getSlow()
}

func (l *Concurrent[T]) getSlow() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// another goroutine may have published while we waited for mu
	if res := l.result.Load(); res != nil {
		return res.value, nil
	}

	l.computing.Store(true)
	defer l.computing.Store(false)

	res, err := invoke(l.opts, l.id, variantConcurrent, l.supplier)
	if err != nil {
		var zero T
		return zero, err
	}
	l.result.Store(res)
	l.supplier = nil
	return res.value, nil
}

// Peek returns the value if it has been published, without blocking.
func (l *Concurrent[T]) Peek() (T, bool) {
	if res := l.result.Load(); res != nil {
		return res.value, true
	}
	var zero T
	return zero, false
}

// State reports the current lifecycle state. The answer may be stale by the
// time the caller acts on it, except that Computed is final.
func (l *Concurrent[T]) State() State {
	if l.result.Load() != nil {
		return Computed
	}
	if l.computing.Load() {
		return Computing
	}
	return Uninitialized
}

// ComputedDuring returns the span of the successful supplier run.
func (l *Concurrent[T]) ComputedDuring() (TimeSpan, bool) {
	if res := l.result.Load(); res != nil {
		return res.span, true
	}
	return TimeSpan{}, false
}

// ID identifies this value in logs and spans.
func (l *Concurrent[T]) ID() string {
	return l.id
}

package lazy

import (
	"github.com/google/uuid"
)

// SingleThreaded is a lazy value without any synchronization.
//
// IMPORTANT: a SingleThreaded must only be used from one goroutine.
// Calling Get from several goroutines at once is a data race; nothing
// detects it at runtime. Use Concurrent when the value is shared.
type SingleThreaded[T any] struct {
	id       string
	opts     *options
	supplier Supplier[T]
	state    State
	result   *computed[T]
}

// NewSingleThreaded returns a lazy value that calls supplier on the first Get.
// It fails with ErrInvalidArgument if supplier is nil.
func NewSingleThreaded[T any](supplier Supplier[T], opts ...Option) (*SingleThreaded[T], error) {
	if supplier == nil {
		return nil, nilSupplierError(variantSingleThreaded)
	}
	return &SingleThreaded[T]{
		id:       uuid.NewString(),
		opts:     newOptions(opts),
		supplier: supplier,
	}, nil
}

// Get returns the memoized value, running the supplier if no run has
// succeeded yet. On failure the value stays uninitialized and the next Get
// runs the supplier again.
func (l *SingleThreaded[T]) Get() (T, error) {
	switch l.state {
	case Computed:
		return l.result.value, nil
	case Computing:
		var zero T
		return zero, ErrReentrantGet
	}

	l.state = Computing
	defer func() {
		// also restores the state when the supplier panics
		if l.state == Computing {
			l.state = Uninitialized
		}
	}()

	res, err := invoke(l.opts, l.id, variantSingleThreaded, l.supplier)
	if err != nil {
		var zero T
		return zero, err
	}
	l.result = res
	l.state = Computed
	l.supplier = nil
	return res.value, nil
}

// Peek returns the value if it has been computed, without running the supplier.
func (l *SingleThreaded[T]) Peek() (T, bool) {
	if l.state != Computed {
		var zero T
		return zero, false
	}
	return l.result.value, true
}

// State reports the current lifecycle state.
func (l *SingleThreaded[T]) State() State {
	return l.state
}

// ComputedDuring returns the span of the successful supplier run.
func (l *SingleThreaded[T]) ComputedDuring() (TimeSpan, bool) {
	if l.state != Computed {
		return TimeSpan{}, false
	}
	return l.result.span, true
}

// ID identifies this value in logs and spans.
func (l *SingleThreaded[T]) ID() string {
	return l.id
}

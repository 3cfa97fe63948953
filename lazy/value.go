package lazy

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// Value is a value-producing, memoizing container.
//
// Get returns the same value on every successful call. After the first
// success the underlying supplier is never run again.
type Value[T any] interface {
	Get() (T, error)
}

var (
	_ Value[int] = (*SingleThreaded[int])(nil)
	_ Value[int] = (*Concurrent[int])(nil)
)

// Supplier is the zero-argument computation a lazy value wraps.
type Supplier[T any] func() (T, error)

// Infallible adapts a function that cannot fail into a Supplier.
// A nil fn yields a nil Supplier.
func Infallible[T any](fn func() T) Supplier[T] {
	if fn == nil {
		return nil
	}
	return func() (T, error) {
		return fn(), nil
	}
}

var (
	// ErrInvalidArgument is returned by constructors given a nil supplier.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNullResult is returned by Get when the supplier produced an absent value.
	// The container is left uninitialized and a later Get retries.
	ErrNullResult = errors.New("supplier produced a nil value")

	// ErrReentrantGet is returned by SingleThreaded.Get when called from its own supplier.
	ErrReentrantGet = errors.New("get called from its own supplier")
)

// Must is the panic-on-failure variant of a Get call.
//
//	v := lazy.Must(l.Get())
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// State is the lifecycle state of a lazy value.
type State uint32

const (
	Uninitialized State = iota
	Computing
	Computed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Computing:
		return "computing"
	case Computed:
		return "computed"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// TimeSpan is the wall-clock interval a supplier ran for.
type TimeSpan = timespan.TimeSpan

func newTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// isAbsent reports whether v holds nothing usable. Only nillable kinds can be
// absent; the zero value of a struct or number is a valid result.
func isAbsent[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		// nil interface
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

func nilSupplierError(variant string) error {
	return fmt.Errorf("%w: %s lazy value requires a non-nil supplier", ErrInvalidArgument, variant)
}

// computed is the published result of a successful supplier run.
type computed[T any] struct {
	value T
	span  TimeSpan
}

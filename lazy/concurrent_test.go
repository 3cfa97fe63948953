package lazy_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/lazy_ive_go/lazy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrent_SixGoroutinesGetTwice(t *testing.T) {
	const numGoroutines = 6

	var counter atomic.Int64
	l, err := lazy.NewConcurrent(lazy.Infallible(func() int64 {
		return counter.Add(1)
	}))
	require.NoError(t, err)

	results := make([]int64, 2*numGoroutines)
	var g errgroup.Group
	for i := 0; i < numGoroutines; i++ {
		g.Go(func() error {
			for j := 0; j < 2; j++ {
				v, err := l.Get()
				if err != nil {
					return err
				}
				results[2*i+j] = v
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, v := range results {
		assert.Equal(t, int64(1), v)
	}
	assert.Equal(t, int64(1), counter.Load())
}

func TestConcurrent_ManyCallersRace(t *testing.T) {
	const numGoroutines = 128

	var invocations atomic.Int32
	start := make(chan struct{})
	l, err := lazy.NewConcurrent(func() (*[]int, error) {
		invocations.Add(1)
		time.Sleep(10 * time.Millisecond)
		s := []int{1, 2, 3}
		return &s, nil
	})
	require.NoError(t, err)

	results := make([]*[]int, numGoroutines)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = lazy.Must(l.Get())
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), invocations.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, []int{1, 2, 3}, *results[0])
}

// A failed attempt is reported only to the goroutine that ran it; goroutines
// blocked behind it retry on their own.
func TestConcurrent_BlockedWaitersRetryAfterFailure(t *testing.T) {
	errFirst := errors.New("first attempt failed")

	var invocations atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	l, err := lazy.NewConcurrent(func() (string, error) {
		if invocations.Add(1) == 1 {
			close(entered)
			<-release
			return "", errFirst
		}
		return "value", nil
	})
	require.NoError(t, err)

	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Get()
		firstErr <- err
	}()
	<-entered
	assert.Equal(t, lazy.Computing, l.State())

	const numWaiters = 5
	results := make([]string, numWaiters)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			v, err := l.Get()
			results[i] = v
			return err
		})
	}

	// give the waiters time to block on the in-flight attempt
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.ErrorIs(t, <-firstErr, errFirst)
	require.NoError(t, g.Wait())
	for _, v := range results {
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, int32(2), invocations.Load())
	assert.Equal(t, lazy.Computed, l.State())
}

func TestConcurrent_NullResultRetriedUnderContention(t *testing.T) {
	var invocations atomic.Int32
	l, err := lazy.NewConcurrent(func() (map[string]int, error) {
		if invocations.Add(1) <= 3 {
			return nil, nil
		}
		return map[string]int{"a": 1}, nil
	})
	require.NoError(t, err)

	const numGoroutines = 16
	var nullResults atomic.Int32
	var g errgroup.Group
	for i := 0; i < numGoroutines; i++ {
		g.Go(func() error {
			for {
				v, err := l.Get()
				if errors.Is(err, lazy.ErrNullResult) {
					nullResults.Add(1)
					continue
				}
				if err != nil {
					return err
				}
				if v["a"] != 1 {
					return errors.New("unexpected value")
				}
				return nil
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(4), invocations.Load())
	assert.Equal(t, int32(3), nullResults.Load())
}

func TestConcurrent_PanicLeavesValueRetryable(t *testing.T) {
	var invocations atomic.Int32
	l, err := lazy.NewConcurrent(lazy.Infallible(func() int {
		if invocations.Add(1) == 1 {
			panic("boom")
		}
		return 7
	}))
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", func() { _, _ = l.Get() })
	assert.Equal(t, lazy.Uninitialized, l.State())

	v, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), invocations.Load())
}

func TestConcurrent_PeekAndComputedDuring(t *testing.T) {
	l, err := lazy.NewConcurrent(lazy.Infallible(func() string {
		time.Sleep(time.Millisecond)
		return "v"
	}))
	require.NoError(t, err)

	_, ok := l.Peek()
	assert.False(t, ok)
	_, ok = l.ComputedDuring()
	assert.False(t, ok)
	assert.Equal(t, lazy.Uninitialized, l.State())

	before := time.Now()
	_, err = l.Get()
	require.NoError(t, err)

	v, ok := l.Peek()
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	span, ok := l.ComputedDuring()
	require.True(t, ok)
	assert.False(t, span.Start().Before(before))
	assert.GreaterOrEqual(t, span.Duration(), time.Millisecond)
}

package memo

import (
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/on-the-ground/lazy_ive_go/internal/logging"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"go.uber.org/zap"
)

// Map memoizes values by string key.
//
// Each key is backed by one lazy.Concurrent, so concurrent Gets for a key
// share one successful computation. Keys are spread over shards by hash;
// a shard's lock only guards creating entries, never running a supplier.
type Map[V any] struct {
	id        string
	shards    []sync.Mutex
	store     Store[V]
	logger    *zap.Logger
	entryOpts []lazy.Option
}

type mapOptions struct {
	logger    *zap.Logger
	entryOpts []lazy.Option
}

// MapOption configures a Map.
type MapOption func(*mapOptions)

// WithMapLogger sets the logger for the Map and its entries.
func WithMapLogger(logger *zap.Logger) MapOption {
	return func(o *mapOptions) {
		o.logger = logger
	}
}

// WithEntryOptions sets options applied to every entry's lazy value.
func WithEntryOptions(opts ...lazy.Option) MapOption {
	return func(o *mapOptions) {
		o.entryOpts = append(o.entryOpts, opts...)
	}
}

// NewMap returns a Map holding its entries in store, or in an unbounded
// in-memory store if store is nil.
func NewMap[V any](cfg Config, store Store[V], opts ...MapOption) *Map[V] {
	cfg = NewConfig(cfg.NumShards)
	if store == nil {
		store = NewInMemoryStore[V]()
	}
	o := &mapOptions{}
	for _, opt := range opts {
		opt(o)
	}

	m := &Map[V]{
		id:     uuid.NewString(),
		shards: make([]sync.Mutex, cfg.NumShards),
		store:  store,
	}
	m.logger = logging.Named(o.logger, "memo").With(zap.String("map_id", m.id))
	m.entryOpts = slices.Concat([]lazy.Option{lazy.WithLogger(m.logger)}, o.entryOpts)
	m.logger.Debug("created memo map", zap.Int("num_shards", cfg.NumShards))
	return m
}

// Get returns the value for key, computing it with supplier if no value has
// been computed yet. While an entry exists for key, its first supplier is
// the one that runs; suppliers passed by later callers are ignored. A nil
// supplier fails with lazy.ErrInvalidArgument when an entry must be created.
func (m *Map[V]) Get(key string, supplier lazy.Supplier[V]) (V, error) {
	e, err := m.entry(key, supplier)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.Get()
}

// Peek returns the value for key if it has been computed.
func (m *Map[V]) Peek(key string) (V, bool) {
	if e, ok := m.store.Load(key); ok {
		return e.Peek()
	}
	var zero V
	return zero, false
}

// Forget drops the entry for key. The next Get computes it again.
func (m *Map[V]) Forget(key string) {
	mu := &m.shards[shardIndex(key, len(m.shards))]
	mu.Lock()
	defer mu.Unlock()
	m.store.Delete(key)
}

// Close releases the store.
func (m *Map[V]) Close() {
	m.store.Close()
	m.logger.Debug("closed memo map")
}

func (m *Map[V]) entry(key string, supplier lazy.Supplier[V]) (*lazy.Concurrent[V], error) {
	if e, ok := m.store.Load(key); ok {
		return e, nil
	}

	mu := &m.shards[shardIndex(key, len(m.shards))]
	mu.Lock()
	defer mu.Unlock()

	if e, ok := m.store.Load(key); ok {
		return e, nil
	}
	e, err := lazy.NewConcurrent(supplier, slices.Concat(m.entryOpts, []lazy.Option{lazy.WithName(key)})...)
	if err != nil {
		return nil, err
	}
	if !m.store.Store(key, e) {
		m.logger.Debug("store did not retain entry", zap.String("key", key))
	}
	return e, nil
}

func shardIndex(key string, numShards int) int {
	switch numShards {
	case 0:
		panic("number of shards cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numShards))
	}
}

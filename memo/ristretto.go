package memo

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/lazy_ive_go/lazy"
)

var _ Store[any] = ristrettoStore[any]{}

// NewRistrettoStore returns a Store bounded to roughly maxEntries entries.
// Ristretto's admission policy may reject or evict entries, so a key can be
// computed more than once over the life of the Map. Close stops the cache's
// background goroutines.
func NewRistrettoStore[V any](maxEntries int64) (Store[V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: maxEntries must be positive, got %d", lazy.ErrInvalidArgument, maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *lazy.Concurrent[V]]{
		NumCounters:        10 * maxEntries, // keys to track frequency of
		MaxCost:            maxEntries,      // every entry costs 1
		BufferItems:        64,              // keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return ristrettoStore[V]{Cache: cache}, nil
}

type ristrettoStore[V any] struct {
	*ristretto.Cache[string, *lazy.Concurrent[V]]
}

func (r ristrettoStore[V]) Load(key string) (*lazy.Concurrent[V], bool) {
	return r.Cache.Get(key)
}

func (r ristrettoStore[V]) Store(key string, entry *lazy.Concurrent[V]) bool {
	if !r.Cache.Set(key, entry, 1) {
		return false
	}
	// Set is buffered; wait so the entry is visible to the next Load.
	r.Cache.Wait()
	_, ok := r.Cache.Get(key)
	return ok
}

func (r ristrettoStore[V]) Delete(key string) {
	r.Cache.Del(key)
}

func (r ristrettoStore[V]) Close() {
	r.Cache.Close()
}

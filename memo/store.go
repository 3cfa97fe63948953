package memo

import (
	"sync"

	"github.com/on-the-ground/lazy_ive_go/lazy"
)

// Store holds the entries of a Map. Implementations must be safe for
// concurrent use. A Store may drop entries at any time; the Map recreates a
// missing entry on the next Get for its key.
type Store[V any] interface {
	Load(key string) (*lazy.Concurrent[V], bool)
	// Store records the entry for key and reports whether it was retained.
	Store(key string, entry *lazy.Concurrent[V]) bool
	Delete(key string)
	Close()
}

var _ Store[any] = inMemoryStore[any]{}

type inMemoryStore[V any] struct {
	*sync.Map
}

// NewInMemoryStore returns an unbounded Store that never drops entries.
func NewInMemoryStore[V any]() Store[V] {
	return inMemoryStore[V]{Map: &sync.Map{}}
}

func (s inMemoryStore[V]) Load(key string) (*lazy.Concurrent[V], bool) {
	v, ok := s.Map.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*lazy.Concurrent[V]), true
}

func (s inMemoryStore[V]) Store(key string, entry *lazy.Concurrent[V]) bool {
	s.Map.Store(key, entry)
	return true
}

func (s inMemoryStore[V]) Delete(key string) {
	s.Map.Delete(key)
}

func (s inMemoryStore[V]) Close() {
	s.Map.Clear()
}

package memo

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type ComparableOrStringer any
type ComparableOrString any

// Trie is a bounded, concurrency-safe table keyed by argument lists.
//
// Entries live in nested sync.Maps, one level per key. Two generations are
// kept: stores go to the head, lookups try the head and then the tail. When
// the head holds maxSize entries the tail is replaced by an empty table and
// becomes the new head.
//
// A Trie holds keys of one length. Load misses on a key of another length,
// and Store or LoadOrStore panics when a shorter key already ends where the
// new one continues.
type Trie[O any] struct {
	tables  [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.tables[0].Store(&sync.Map{})
	t.tables[1].Store(&sync.Map{})
	return t
}

func (t *Trie[O]) Load(keys []ComparableOrString) (O, bool) {
	if len(keys) == 0 {
		panic("load: empty keys")
	}
	headIdx := t.headIdx.Load()
	v, ok := lookup(t.tables[headIdx].Load(), keys)
	if !ok {
		v, ok = lookup(t.tables[1-headIdx].Load(), keys)
		if !ok {
			var zero O
			return zero, false
		}
	}
	o, ok := v.(O)
	return o, ok
}

// Store sets the value for keys, replacing any value in the head table.
func (t *Trie[O]) Store(keys []ComparableOrString, value O) {
	t.rotateIfFull()
	m, k := traverse(t.tables[t.headIdx.Load()].Load(), keys)
	if _, loaded := m.Swap(k, value); !loaded {
		t.size.Add(1)
	}
}

// LoadOrStore returns the existing value for keys if present. Otherwise it
// stores value and returns it. loaded reports whether the value was found.
func (t *Trie[O]) LoadOrStore(keys []ComparableOrString, value O) (actual O, loaded bool) {
	if v, ok := t.Load(keys); ok {
		return v, true
	}
	t.rotateIfFull()
	m, k := traverse(t.tables[t.headIdx.Load()].Load(), keys)
	v, loaded := m.LoadOrStore(k, value)
	if !loaded {
		t.size.Add(1)
	}
	actual, ok := v.(O)
	if !ok {
		panic(fmt.Sprintf("loadOrStore: key %v of %d keys holds a table, not a value", k, len(keys)))
	}
	return actual, loaded
}

func (t *Trie[O]) rotateIfFull() {
	for {
		n := t.size.Load()
		if n < t.maxSize {
			return
		}
		if t.size.CompareAndSwap(n, 0) {
			tailIdx := 1 - t.headIdx.Load()
			t.tables[tailIdx].Store(&sync.Map{})
			t.headIdx.Store(tailIdx)
			return
		}
	}
}

// lookup walks keys without creating intermediate levels.
func lookup(m *sync.Map, keys []ComparableOrString) (any, bool) {
	last := len(keys) - 1
	for _, k := range keys[:last] {
		next, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		if m, ok = next.(*sync.Map); !ok {
			return nil, false
		}
	}
	return m.Load(keys[last])
}

// traverse walks keys, creating missing intermediate levels, and returns the
// leaf table along with the final key.
func traverse(m *sync.Map, keys []ComparableOrString) (*sync.Map, any) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}

	for _, k := range keys[:length-1] {
		next, ok := m.Load(k)
		if !ok {
			next, _ = m.LoadOrStore(k, &sync.Map{})
		}
		if m, ok = next.(*sync.Map); !ok {
			panic(fmt.Sprintf("traverse: key %v of %d keys holds a value, not a table", k, length))
		}
	}
	return m, keys[length-1]
}

// Package kvstore provides a thread-safe, synchronous key-value store: the
// foundational shared-state primitive beneath the eventstream layer, e.g.
// for counters, or cached settings.
package kvstore

import (
	"sync"

	"golang.org/x/exp/maps"
)

type (
	// Store is the capability interface any persistence backend may
	// implement, in place of the in-memory default. Implementations must be
	// safe for concurrent use, with each operation atomic - no partial
	// mutation may be observable.
	//
	// An empty key is a contract violation, and will cause a panic.
	Store[V any] interface {
		// Get returns the current value for key, or false if unset.
		Get(key string) (V, bool)

		// Set inserts or overwrites the value for key, last-writer-wins.
		Set(key string, value V)

		// Remove deletes the entry for key, returning true if it existed.
		Remove(key string) bool

		// Contains returns true if an entry exists for key.
		Contains(key string) bool

		// Clear removes all entries, atomically.
		Clear()
	}

	// InMemory is the default Store implementation: a mapping guarded by a
	// single mutual-exclusion lock, owned by the instance - multiple
	// instances are fully independent. Instances must be initialized using
	// the NewInMemory factory.
	//
	// Every operation holds the lock for its full duration, and is
	// constant-time under it. Usage invariant: no operation may call back
	// into the same store re-entrantly (e.g. from a value's method invoked
	// under the lock), as this would deadlock. This is documented, not
	// checked at runtime.
	InMemory[V any] struct {
		entries map[string]V
		mu      sync.Mutex
	}
)

var _ Store[any] = (*InMemory[any])(nil)

// NewInMemory initializes a new InMemory store.
func NewInMemory[V any]() *InMemory[V] {
	return &InMemory[V]{entries: make(map[string]V)}
}

func guardKey(key string) {
	if key == `` {
		panic(`kvstore: empty key`)
	}
}

// Get implements Store.
func (x *InMemory[V]) Get(key string) (V, bool) {
	guardKey(key)
	x.mu.Lock()
	defer x.mu.Unlock()
	value, ok := x.entries[key]
	return value, ok
}

// Set implements Store.
func (x *InMemory[V]) Set(key string, value V) {
	guardKey(key)
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[key] = value
}

// Remove implements Store.
func (x *InMemory[V]) Remove(key string) bool {
	guardKey(key)
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.entries[key]
	if ok {
		delete(x.entries, key)
	}
	return ok
}

// Contains implements Store.
func (x *InMemory[V]) Contains(key string) bool {
	guardKey(key)
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.entries[key]
	return ok
}

// Clear implements Store.
func (x *InMemory[V]) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	maps.Clear(x.entries)
}

// Len returns the current number of entries.
func (x *InMemory[V]) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

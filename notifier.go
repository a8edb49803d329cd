package eventstream

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PropertyNotifier is an embeddable ChangeNotifier implementation: an
// explicit listener-registration table, keyed by subscription handle, with
// guaranteed detach on dispose. Objects embedding it raise notifications via
// NotifyChanged, typically from their property setters.
//
// The zero value is ready for use. PropertyNotifier is safe for concurrent
// use, though listeners are invoked synchronously, on the notifying
// goroutine, without the internal lock held.
//
// Note that embedding types should be used by pointer - copying a
// PropertyNotifier after use is invalid, and value types are unsuitable as
// observable collection items, see Item.
type PropertyNotifier struct {
	listeners map[string]func(name string)
	mu        sync.Mutex
}

var _ ChangeNotifier = (*PropertyNotifier)(nil)

// OnPropertyChanged implements ChangeNotifier. A nil listener will cause a
// panic.
func (x *PropertyNotifier) OnPropertyChanged(listener func(name string)) Disposable {
	if listener == nil {
		panic(`eventstream: nil listener`)
	}
	x.mu.Lock()
	if x.listeners == nil {
		x.listeners = make(map[string]func(name string))
	}
	key := uuid.NewString()
	x.listeners[key] = listener
	x.mu.Unlock()
	return DisposeFunc(func() {
		x.mu.Lock()
		delete(x.listeners, key)
		x.mu.Unlock()
	})
}

// NotifyChanged raises the property-changed event for name, invoking every
// registered listener.
func (x *PropertyNotifier) NotifyChanged(name string) {
	x.mu.Lock()
	listeners := maps.Values(x.listeners)
	x.mu.Unlock()
	for _, listener := range listeners {
		listener(name)
	}
}

// ItemSet is a mutable Collection implementation with membership
// notifications, suitable for use with ObserveItems in either membership
// mode. The zero value is ready for use. ItemSet is safe for concurrent use.
type ItemSet[O Item] struct {
	listeners map[string]func(added, removed []O)
	items     []O
	mu        sync.Mutex
}

// Items implements Collection, returning a copy of the current items, in
// insertion order.
func (x *ItemSet[O]) Items() []O {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.items)
}

// Add appends any items not already present, notifying membership listeners.
func (x *ItemSet[O]) Add(items ...O) {
	x.mu.Lock()
	var added []O
	for _, item := range items {
		if !slices.Contains(x.items, item) {
			x.items = append(x.items, item)
			added = append(added, item)
		}
	}
	listeners := maps.Values(x.listeners)
	x.mu.Unlock()
	if len(added) == 0 {
		return
	}
	for _, listener := range listeners {
		listener(added, nil)
	}
}

// Remove removes any items present, notifying membership listeners.
func (x *ItemSet[O]) Remove(items ...O) {
	x.mu.Lock()
	var removed []O
	for _, item := range items {
		if i := slices.Index(x.items, item); i >= 0 {
			x.items = slices.Delete(x.items, i, i+1)
			removed = append(removed, item)
		}
	}
	listeners := maps.Values(x.listeners)
	x.mu.Unlock()
	if len(removed) == 0 {
		return
	}
	for _, listener := range listeners {
		listener(nil, removed)
	}
}

// OnMembershipChanged implements MembershipNotifier. A nil listener will
// cause a panic.
func (x *ItemSet[O]) OnMembershipChanged(listener func(added, removed []O)) Disposable {
	if listener == nil {
		panic(`eventstream: nil listener`)
	}
	x.mu.Lock()
	if x.listeners == nil {
		x.listeners = make(map[string]func(added, removed []O))
	}
	key := uuid.NewString()
	x.listeners[key] = listener
	x.mu.Unlock()
	return DisposeFunc(func() {
		x.mu.Lock()
		delete(x.listeners, key)
		x.mu.Unlock()
	})
}

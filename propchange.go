package eventstream

import (
	"sync"

	"golang.org/x/exp/maps"
)

type (
	// ChangeNotifier is the property-change notification contract an observed
	// object must implement: a registerable "property changed" event,
	// carrying the changed property's name.
	//
	// Implementations must invoke listeners synchronously, on the goroutine
	// raising the notification, and must detach a listener once its handle is
	// disposed. See PropertyNotifier for an embeddable implementation.
	ChangeNotifier interface {
		// OnPropertyChanged registers listener, returning a handle which
		// detaches it.
		OnPropertyChanged(listener func(name string)) Disposable
	}

	// Item constrains observable collection items. Items must be valid map
	// keys, to support membership tracking - in practice, pointer types.
	Item interface {
		comparable
		ChangeNotifier
	}

	// PropertyChange pairs the owning object with the name of the property
	// that changed. Immutable once constructed.
	PropertyChange[O ChangeNotifier] struct {
		Owner O
		Name  string
	}

	// ItemChange pairs a collection item with the new value of the observed
	// property. The projector never owns the item's lifetime. Immutable once
	// constructed.
	ItemChange[O Item, V any] struct {
		Owner O
		Value V
	}

	// Collection models a collection of observable items, snapshot-able at
	// subscription time.
	Collection[O Item] interface {
		// Items returns the current items. The returned slice must not be
		// retained or mutated by the collection after return.
		Items() []O
	}

	// MembershipNotifier is optionally implemented by a Collection, enabling
	// live membership tracking, see ObserveItemsConfig.TrackMembership.
	MembershipNotifier[O Item] interface {
		// OnMembershipChanged registers listener, invoked with items added to
		// or removed from the collection, returning a handle which detaches
		// it.
		OnMembershipChanged(listener func(added, removed []O)) Disposable
	}

	// ObserveItemsConfig models optional configuration, for ObserveItems.
	ObserveItemsConfig struct {
		// TrackMembership, if set, attaches change listeners to items added
		// to the collection after subscription, and detaches them from items
		// removed. Requires the collection to implement MembershipNotifier -
		// ObserveItems will panic otherwise.
		//
		// Defaults to snapshot semantics: only items present at subscription
		// time are observed.
		TrackMembership bool
	}
)

// ObserveProperty projects changes to a single named property of owner into
// a typed stream. On subscribe, the property's current value is emitted
// immediately (replay-one - new subscribers are not starved waiting for the
// next mutation), then again every time owner raises a change notification
// for name. Notifications for other properties are filtered out.
//
// The value accessor keeps the projection in sync with the property at
// compile time; it is invoked once per matching notification, on the
// notifying goroutine.
//
// Providing a nil value accessor will cause a panic.
func ObserveProperty[O ChangeNotifier, V any](owner O, name string, value func(owner O) V) Stream[V] {
	if value == nil {
		panic(`eventstream: nil value accessor`)
	}
	return StreamFunc[V](func(observer Observer[V]) Disposable {
		observer.check()
		observer.OnNext(value(owner))
		return owner.OnPropertyChanged(func(changed string) {
			if changed == name {
				observer.OnNext(value(owner))
			}
		})
	})
}

// ObserveChanges projects every change notification raised by owner,
// regardless of which property changed, into an (owner, name) stream. There
// is no initial replay.
func ObserveChanges[O ChangeNotifier](owner O) Stream[PropertyChange[O]] {
	return StreamFunc[PropertyChange[O]](func(observer Observer[PropertyChange[O]]) Disposable {
		observer.check()
		return owner.OnPropertyChanged(func(name string) {
			observer.OnNext(PropertyChange[O]{Owner: owner, Name: name})
		})
	})
}

// ObserveItems projects changes to the named property of each item of
// collection into a combined (item, value) stream. On subscribe, a change
// listener is attached to every item currently in the collection. There is
// no initial replay.
//
// By default the item set is a snapshot: items added to or removed from the
// collection after subscription are not tracked. Set
// ObserveItemsConfig.TrackMembership to track membership instead. The config
// parameter may be nil.
//
// Disposing the subscription detaches every listener it attached, leaving no
// dangling registrations.
//
// Providing a nil collection or value accessor will cause a panic, as will
// requesting membership tracking of a collection that does not implement
// MembershipNotifier.
func ObserveItems[O Item, V any](config *ObserveItemsConfig, collection Collection[O], name string, value func(owner O) V) Stream[ItemChange[O, V]] {
	if collection == nil {
		panic(`eventstream: nil collection`)
	}
	if value == nil {
		panic(`eventstream: nil value accessor`)
	}

	var membership MembershipNotifier[O]
	if config != nil && config.TrackMembership {
		m, ok := collection.(MembershipNotifier[O])
		if !ok {
			panic(`eventstream: collection does not notify membership changes`)
		}
		membership = m
	}

	return StreamFunc[ItemChange[O, V]](func(observer Observer[ItemChange[O, V]]) Disposable {
		observer.check()

		var (
			mu       sync.Mutex
			disposed bool
			attached = make(map[O]Disposable)
		)

		// mu held by caller
		attach := func(item O) {
			if _, ok := attached[item]; ok {
				return
			}
			attached[item] = item.OnPropertyChanged(func(changed string) {
				if changed == name {
					observer.OnNext(ItemChange[O, V]{Owner: item, Value: value(item)})
				}
			})
		}

		mu.Lock()

		for _, item := range collection.Items() {
			attach(item)
		}

		var membershipHandle Disposable
		if membership != nil {
			membershipHandle = membership.OnMembershipChanged(func(added, removed []O) {
				mu.Lock()
				defer mu.Unlock()
				if disposed {
					return
				}
				for _, item := range added {
					attach(item)
				}
				for _, item := range removed {
					if handle, ok := attached[item]; ok {
						delete(attached, item)
						handle.Dispose()
					}
				}
			})
		}

		mu.Unlock()

		return DisposeFunc(func() {
			mu.Lock()
			if disposed {
				mu.Unlock()
				return
			}
			disposed = true
			handles := maps.Values(attached)
			attached = nil
			mu.Unlock()
			if membershipHandle != nil {
				membershipHandle.Dispose()
			}
			for _, handle := range handles {
				handle.Dispose()
			}
		})
	})
}

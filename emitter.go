package eventstream

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// Emitter is a concrete push-based Stream source. Values passed to Emit are
// delivered synchronously, on the calling goroutine, to every observer
// subscribed at that point. Fail and Complete terminate the stream - later
// calls to Emit, Fail, or Complete are no-ops, and later subscribers receive
// the terminal signal immediately, on subscribe.
//
// The observer registration table is keyed by subscription handle, and each
// handle detaches exactly its own registration, idempotently. Disposing a
// handle synchronizes with Emit: events emitted after Dispose returns will
// not be delivered to that observer.
//
// The zero value is ready for use. Emitter is safe for concurrent use,
// though note that delivery order is only defined per emitting goroutine.
type Emitter[T any] struct {
	observers map[string]Observer[T]
	err       error
	mu        sync.Mutex
	done      bool
}

var _ Stream[any] = (*Emitter[any])(nil)

// Subscribe implements Stream. A nil Observer.OnNext will cause a panic.
func (x *Emitter[T]) Subscribe(observer Observer[T]) Disposable {
	observer.check()

	x.mu.Lock()

	if x.done {
		err := x.err
		x.mu.Unlock()
		if err != nil {
			observer.error(err)
		} else {
			observer.complete()
		}
		return DisposeFunc(nil)
	}

	if x.observers == nil {
		x.observers = make(map[string]Observer[T])
	}
	key := uuid.NewString()
	x.observers[key] = observer

	x.mu.Unlock()

	return DisposeFunc(func() {
		x.mu.Lock()
		delete(x.observers, key)
		x.mu.Unlock()
	})
}

// Emit delivers value to all current observers. No-op after Fail or Complete.
func (x *Emitter[T]) Emit(value T) {
	for _, observer := range x.snapshot(false, nil) {
		observer.OnNext(value)
	}
}

// Fail terminates the stream with err, delivering it to all current
// observers. A nil err will cause a panic.
func (x *Emitter[T]) Fail(err error) {
	if err == nil {
		panic(`eventstream: nil error`)
	}
	for _, observer := range x.snapshot(true, err) {
		observer.error(err)
	}
}

// Complete terminates the stream normally, notifying all current observers.
func (x *Emitter[T]) Complete() {
	for _, observer := range x.snapshot(true, nil) {
		observer.complete()
	}
}

// snapshot returns the current observers, releasing the lock prior to
// delivery (observers may re-enter, e.g. disposing their own subscription).
func (x *Emitter[T]) snapshot(terminal bool, err error) []Observer[T] {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.done {
		return nil
	}
	observers := maps.Values(x.observers)
	if terminal {
		x.done = true
		x.err = err
		x.observers = nil
	}
	return observers
}

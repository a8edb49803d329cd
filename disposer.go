package eventstream

import (
	"sync"
)

type (
	// Disposable models a releasable resource, e.g. an active stream
	// subscription, or an event-handler registration. All Disposable values
	// produced by this package are idempotent - disposing more than once has
	// no additional effect.
	Disposable interface {
		// Dispose releases the resource.
		Dispose()
	}

	// DisposeFunc implements Disposable. A nil DisposeFunc is a no-op.
	DisposeFunc func()

	// Disposer is a composite releaser. Resources registered via Add or
	// Defer are released by Dispose, in reverse registration order,
	// mirroring stack unwinding. Each resource is released exactly once,
	// even if Dispose is called multiple times. Resources registered after
	// Dispose are released immediately.
	//
	// The zero value is ready for use. Disposer is safe for concurrent use.
	Disposer struct {
		mu        sync.Mutex
		resources []Disposable
		disposed  bool
	}
)

// Dispose calls f, unless f is nil.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Add registers resources for release on Dispose. Nil values are ignored.
// If the Disposer is already disposed, resources are released immediately.
func (x *Disposer) Add(resources ...Disposable) {
	x.mu.Lock()
	if !x.disposed {
		for _, resource := range resources {
			if resource != nil {
				x.resources = append(x.resources, resource)
			}
		}
		x.mu.Unlock()
		return
	}
	x.mu.Unlock()
	for i := len(resources) - 1; i >= 0; i-- {
		if resources[i] != nil {
			resources[i].Dispose()
		}
	}
}

// Defer registers f for release on Dispose, see also Add.
func (x *Disposer) Defer(f func()) {
	if f != nil {
		x.Add(DisposeFunc(f))
	}
}

// Dispose releases all registered resources, in reverse registration order.
func (x *Disposer) Dispose() {
	x.mu.Lock()
	resources := x.resources
	x.resources = nil
	x.disposed = true
	x.mu.Unlock()
	for i := len(resources) - 1; i >= 0; i-- {
		resources[i].Dispose()
	}
}

package eventstream

type (
	// Observer receives the events of a single Stream subscription.
	//
	// OnNext is mandatory - a nil OnNext will cause Subscribe to panic.
	// OnError and OnComplete are optional. At most one of OnError and
	// OnComplete will be called, at most once, after which no further
	// callbacks occur for that subscription.
	//
	// Callbacks are invoked synchronously, on whatever goroutine the source
	// delivers from. Within a single source, delivery order to a given
	// observer matches arrival order. No ordering is guaranteed between
	// independently-subscribed observers of the same source.
	Observer[T any] struct {
		// OnNext receives each value, in delivery order.
		OnNext func(value T)

		// OnError receives the terminal error, if the stream fails.
		OnError func(err error)

		// OnComplete signals normal termination of the stream.
		OnComplete func()
	}

	// Stream models a push-based, potentially infinite sequence of values,
	// delivered to observers over time.
	Stream[T any] interface {
		// Subscribe registers observer, returning a handle which stops
		// further delivery when disposed. Disposing the handle must also
		// release any underlying event-handler registrations.
		//
		// A nil Observer.OnNext will cause a panic.
		Subscribe(observer Observer[T]) Disposable
	}

	// StreamFunc implements Stream.
	StreamFunc[T any] func(observer Observer[T]) Disposable
)

// Subscribe calls f.
func (f StreamFunc[T]) Subscribe(observer Observer[T]) Disposable { return f(observer) }

// check panics unless the observer meets the Subscribe contract.
func (x Observer[T]) check() {
	if x.OnNext == nil {
		panic(`eventstream: nil observer on next`)
	}
}

func (x Observer[T]) error(err error) {
	if x.OnError != nil {
		x.OnError(err)
	}
}

func (x Observer[T]) complete() {
	if x.OnComplete != nil {
		x.OnComplete()
	}
}

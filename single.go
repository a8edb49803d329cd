package eventstream

// Just returns a Stream which, on subscribe, synchronously delivers value as
// the one and only emission, then immediately signals normal completion. The
// returned handle is a no-op, as there is nothing left to deliver by the time
// Subscribe returns.
func Just[T any](value T) Stream[T] {
	return StreamFunc[T](func(observer Observer[T]) Disposable {
		observer.check()
		observer.OnNext(value)
		observer.complete()
		return DisposeFunc(nil)
	})
}

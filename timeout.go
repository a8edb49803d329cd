package eventstream

import (
	"context"
	"sync"
	"time"
)

// Await executes op on a new goroutine, and waits for the first of: the
// operation completing, the timeout elapsing, or ctx being canceled. Exactly
// one outcome is ever returned. If the deadline elapses first, the result is
// ErrTimeout, and the operation is abandoned - its context is canceled, but
// actual cancellation is best-effort, depending on op's own support. A
// timeout <= 0 disables the deadline.
//
// Panics within op are recovered and returned as a PanicError. If op's
// goroutine exits via runtime.Goexit, ErrGoexit is returned, rather than
// hanging indefinitely.
//
// Providing a nil ctx or op will cause a panic.
func Await[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	if ctx == nil {
		panic(`eventstream: nil context`)
	}
	if op == nil {
		panic(`eventstream: nil operation`)
	}

	// guard context cancel - consistent behavior (avoid starting op if canceled)
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		err   error
		value T
	}

	ch := make(chan result, 1)

	go func() {
		var (
			r         result
			completed bool
		)
		defer func() {
			if v := recover(); v != nil {
				r = result{err: PanicError{Value: v}}
			} else if !completed {
				// ended but not via normal return -> Goexit
				r = result{err: ErrGoexit}
			}
			ch <- r
		}()
		r.value, r.err = op(ctx)
		completed = true
	}()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()

	case <-timeoutCh:
		var zero T
		return zero, ErrTimeout

	case r := <-ch:
		return r.value, r.err
	}
}

// FromAsync returns the stream form of Await: each subscription starts op on
// a new goroutine, delivering its result as the one and only emission,
// followed by normal completion, or delivering ErrTimeout (or the operation's
// own error) as the terminal error. Disposing the subscription cancels the
// operation's context and deterministically stops delivery.
//
// Providing a nil op will cause a panic. See Await regarding timeout,
// panics, and cancellation semantics.
func FromAsync[T any](timeout time.Duration, op func(ctx context.Context) (T, error)) Stream[T] {
	if op == nil {
		panic(`eventstream: nil operation`)
	}
	return StreamFunc[T](func(observer Observer[T]) Disposable {
		observer.check()

		ctx, cancel := context.WithCancel(context.Background())

		// guards delivery against dispose, so dispose deterministically
		// stops further delivery, even mid-flight
		var (
			mu      sync.Mutex
			stopped bool
		)

		go func() {
			value, err := Await(ctx, timeout, op)
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			if err != nil {
				observer.error(err)
				return
			}
			observer.OnNext(value)
			observer.complete()
		}()

		return DisposeFunc(func() {
			mu.Lock()
			stopped = true
			mu.Unlock()
			cancel()
		})
	})
}

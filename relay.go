package eventstream

import (
	"context"
	"sync"

	bigbuff "github.com/joeycumines/go-bigbuff"
	"github.com/joeycumines/logiface"
)

type (
	// RelayConfig models optional configuration, for NewRelay.
	RelayConfig struct {
		// Logger receives debug and error logs for the relay, if non-nil.
		Logger *logiface.Logger[logiface.Event]
	}

	// Relay bridges a Stream into channel-based subscribers. It is intended
	// for consumers that want to receive from a channel, e.g. in a select,
	// rather than implement Observer callbacks.
	Relay[T any] struct {
		notifier bigbuff.Notifier
		logger   *logiface.Logger[logiface.Event]
		ctx      context.Context
		cancel   context.CancelFunc
		sub      Disposable
		err      error
		done     chan struct{}
		mu       sync.Mutex
	}
)

// NewRelay subscribes to source, republishing its values to all channel
// subscribers, see Relay.Subscribe. The relay terminates when the source
// terminates, or when ctx is canceled, or on Close. The config parameter may
// be nil.
//
// Providing a nil ctx or source will cause a panic.
func NewRelay[T any](ctx context.Context, config *RelayConfig, source Stream[T]) *Relay[T] {
	if ctx == nil {
		panic(`eventstream: nil context`)
	}
	if source == nil {
		panic(`eventstream: nil source`)
	}

	x := &Relay[T]{done: make(chan struct{})}
	if config != nil {
		x.logger = config.Logger
	}
	x.ctx, x.cancel = context.WithCancel(ctx)

	srcDone := make(chan struct{})
	var srcOnce sync.Once

	x.sub = source.Subscribe(Observer[T]{
		OnNext: func(value T) {
			// note: blocking sends - subscribers must receive promptly
			x.notifier.PublishContext(x.ctx, nil, value)
		},
		OnError: func(err error) {
			x.fatalErr(err)
			srcOnce.Do(func() { close(srcDone) })
		},
		OnComplete: func() {
			srcOnce.Do(func() { close(srcDone) })
		},
	})

	x.logger.Debug().Log(`relay started`)

	go func() {
		defer close(x.done)
		defer x.logger.Debug().Log(`relay stopped`)
		defer x.cancel()
		select {
		case <-srcDone:
		case <-x.ctx.Done():
		}
		x.sub.Dispose()
	}()

	return x
}

func (x *Relay[T]) fatalErr(err error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return
	}
	x.cancel()
	x.err = err
	x.logger.Err().
		Err(err).
		Log(`relay source failed`)
}

// Subscribe accepts any target that is a channel which can receive T values.
// The returned cancel func MUST be called, unless ctx is canceled.
// WARNING: Sends to target are blocking, and callers must therefore always
// receive promptly.
func (x *Relay[T]) Subscribe(ctx context.Context, target any) context.CancelFunc {
	return x.notifier.SubscribeCancel(ctx, nil, target)
}

// Done is closed once the relay has terminated.
func (x *Relay[T]) Done() <-chan struct{} {
	return x.done
}

// Err returns the source's terminal error, if any.
func (x *Relay[T]) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.err
}

// Close terminates the relay, blocking until it has finished closing, and
// returns Err.
func (x *Relay[T]) Close() error {
	x.cancel()
	<-x.done
	return x.Err()
}

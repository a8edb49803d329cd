package eventstream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"golang.org/x/sync/errgroup"
)

type (
	// Work models a per-value unit of asynchronous work, dispatched by the
	// fan-out adapters. The provided context is canceled when the run
	// terminates - long-running work should accept and respect it, as
	// cancellation is otherwise best-effort.
	Work[T any] func(ctx context.Context, value T) error

	// RunConfig models optional configuration, for the fan-out adapters.
	RunConfig struct {
		// Logger receives debug and error logs for the run, if non-nil.
		Logger *logiface.Logger[logiface.Event]
	}

	// Run models an in-progress fan-out: a terminal, side-effecting consumer
	// of a stream, producing no values of its own, only a completion/failure
	// signal. Instances must be initialized via GoSequential, GoConcurrent,
	// or GoBounded.
	//
	// The run terminates when the source stream terminates and all dispatched
	// work has settled, when a unit of work fails, or when Close is called.
	// The first failure wins; work errors caused by the run's own
	// cancellation are treated as clean shutdown.
	Run struct {
		logger *logiface.Logger[logiface.Event]
		ctx    context.Context
		cancel context.CancelFunc
		sub    Disposable
		err    error
		done   chan struct{}
		mu     sync.Mutex
	}
)

// GoSequential dispatches work for each source value, strictly one at a
// time: the next value is not admitted until the previous value's work has
// completed, the source being blocked in the interim (back-pressure). A work
// failure terminates the run with that failure, and no further values are
// processed. The config parameter may be nil.
//
// Providing a nil ctx, source, or work will cause a panic.
func GoSequential[T any](ctx context.Context, config *RunConfig, source Stream[T], work Work[T]) *Run {
	run := newRun[T](ctx, config, source, work)

	ch := make(chan T)
	srcDone := make(chan struct{})
	var srcOnce sync.Once

	// single worker - previous work finished is the fastest possible
	// admission of the next value
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		run.logger.Debug().Log(`sequential worker started`)
		defer run.logger.Debug().Log(`sequential worker stopped`)
		for {
			select {
			case <-run.ctx.Done():
				return
			case <-srcDone:
				return
			case value := <-ch:
				if err := work(run.ctx, value); err != nil {
					run.fatalErr(err)
					return
				}
			}
		}
	}()

	run.sub = source.Subscribe(Observer[T]{
		OnNext: func(value T) {
			select {
			case <-run.ctx.Done():
			case ch <- value:
			}
		},
		OnError: func(err error) {
			run.fatalErr(err)
			srcOnce.Do(func() { close(srcDone) })
		},
		OnComplete: func() {
			srcOnce.Do(func() { close(srcDone) })
		},
	})

	go func() {
		defer close(run.done)
		defer run.cancel()
		<-workerDone
		run.sub.Dispose()
	}()

	return run
}

// GoConcurrent dispatches work for every source value immediately, with no
// upper bound on simultaneously in-flight work. Completions may settle in
// any order. A work failure terminates the run with that failure, though
// other in-flight work is not guaranteed to be canceled before the failure
// surfaces. The config parameter may be nil.
//
// Providing a nil ctx, source, or work will cause a panic.
func GoConcurrent[T any](ctx context.Context, config *RunConfig, source Stream[T], work Work[T]) *Run {
	return goGroup(ctx, config, 0, source, work)
}

// GoBounded is GoConcurrent restricted to at most width units of in-flight
// work: once fewer than width are in flight, the next value is admitted, in
// arrival order, the source being blocked in the interim. The config
// parameter may be nil.
//
// Providing a nil ctx, source, or work will cause a panic, as will a
// width <= 0.
func GoBounded[T any](ctx context.Context, config *RunConfig, width int, source Stream[T], work Work[T]) *Run {
	if width <= 0 {
		panic(`eventstream: width must be positive`)
	}
	return goGroup(ctx, config, width, source, work)
}

func goGroup[T any](ctx context.Context, config *RunConfig, width int, source Stream[T], work Work[T]) *Run {
	run := newRun[T](ctx, config, source, work)

	g, gctx := errgroup.WithContext(run.ctx)
	if width > 0 {
		g.SetLimit(width)
	}

	srcDone := make(chan struct{})
	var srcOnce sync.Once

	// gate serializes dispatch against g.Wait, so no work is added once the
	// run is draining
	var (
		gate     sync.RWMutex
		stopping atomic.Bool
	)

	run.sub = source.Subscribe(Observer[T]{
		OnNext: func(value T) {
			gate.RLock()
			defer gate.RUnlock()
			if stopping.Load() || gctx.Err() != nil {
				// terminated - the adapter admits nothing further
				return
			}
			g.Go(func() error {
				return work(gctx, value)
			})
		},
		OnError: func(err error) {
			run.fatalErr(err)
			srcOnce.Do(func() { close(srcDone) })
		},
		OnComplete: func() {
			srcOnce.Do(func() { close(srcDone) })
		},
	})

	go func() {
		defer close(run.done)
		defer run.cancel()
		select {
		case <-srcDone:
		case <-run.ctx.Done():
		}
		stopping.Store(true)
		run.sub.Dispose()
		gate.Lock()
		//lint:ignore SA2001 barrier for in-flight dispatch, prior to wait
		gate.Unlock()
		if err := g.Wait(); err != nil {
			run.fatalErr(err)
		}
	}()

	return run
}

func newRun[T any](ctx context.Context, config *RunConfig, source Stream[T], work Work[T]) *Run {
	if ctx == nil {
		panic(`eventstream: nil context`)
	}
	if source == nil {
		panic(`eventstream: nil source`)
	}
	if work == nil {
		panic(`eventstream: nil work`)
	}
	run := &Run{done: make(chan struct{})}
	if config != nil {
		run.logger = config.Logger
	}
	run.ctx, run.cancel = context.WithCancel(ctx)
	return run
}

// fatalErr records the first failure, and cancels the run. Errors caused by
// the run's own cancellation are not failures.
func (x *Run) fatalErr(err error) {
	if err == nil || (x.ctx.Err() != nil && errors.Is(err, context.Canceled)) {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return
	}
	x.err = err
	x.logger.Err().
		Err(err).
		Log(`fan-out terminated`)
	x.cancel()
}

// Done is closed once the run has terminated and all dispatched work has
// settled.
func (x *Run) Done() <-chan struct{} {
	return x.done
}

// Err returns the first failure, or nil if the run completed normally (or
// was closed) - generally only meaningful after Done is closed.
func (x *Run) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.err
}

// Wait blocks until the run terminates, returning Err, or until ctx is
// canceled, returning its error.
func (x *Run) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-x.done:
		return x.Err()
	}
}

// Close cancels the run, blocking until all dispatched work has settled, and
// returns Err.
func (x *Run) Close() error {
	x.cancel()
	<-x.done
	return x.Err()
}

package eventstream

import (
	"time"
)

// Timestamped pairs a value with the wall-clock time it was observed.
type Timestamped[T any] struct {
	At    time.Time
	Value T
}

// BufferWhile accumulates timestamped source items while predicate holds,
// flushing batches on predicate failure. For each incoming item: if the
// predicate holds, the (value, arrival time) pair is appended to an internal
// sequence, and nothing is emitted. If the predicate fails, the internal
// sequence is emitted as a single batch, in insertion order, then cleared -
// the failing item itself is the flush trigger, not a payload, and is
// consumed without being appended. A failing item with nothing buffered
// emits an empty batch.
//
// On source completion, no implicit final flush is performed - buffered but
// unflushed items are dropped. Source failure propagates unchanged,
// likewise discarding unflushed items.
//
// The buffer is owned by its subscription, and is only ever touched from the
// source's delivery goroutine, requiring no synchronization of its own.
//
// Providing a nil source or predicate will cause a panic.
func BufferWhile[T any](source Stream[T], predicate func(value T) bool) Stream[[]Timestamped[T]] {
	if source == nil {
		panic(`eventstream: nil source`)
	}
	if predicate == nil {
		panic(`eventstream: nil predicate`)
	}
	return StreamFunc[[]Timestamped[T]](func(observer Observer[[]Timestamped[T]]) Disposable {
		observer.check()
		var buffered []Timestamped[T]
		return source.Subscribe(Observer[T]{
			OnNext: func(value T) {
				if predicate(value) {
					buffered = append(buffered, Timestamped[T]{Value: value, At: time.Now()})
					return
				}
				batch := buffered
				buffered = nil
				observer.OnNext(batch)
			},
			OnError: func(err error) {
				buffered = nil
				observer.error(err)
			},
			OnComplete: func() {
				buffered = nil
				observer.complete()
			},
		})
	})
}

package eventstream

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestEmitter_Subscribe_nilOnNext(t *testing.T) {
	var emitter Emitter[int]
	expectPanic(t, `eventstream: nil observer on next`, func() {
		emitter.Subscribe(Observer[int]{})
	})
}

func TestEmitter_Emit_deliveryOrder(t *testing.T) {
	var (
		emitter Emitter[int]
		values  []int
	)
	handle := emitter.Subscribe(Observer[int]{OnNext: func(value int) { values = append(values, value) }})
	defer handle.Dispose()
	for i := 1; i <= 3; i++ {
		emitter.Emit(i)
	}
	if !reflect.DeepEqual(values, []int{1, 2, 3}) {
		t.Errorf(`expected arrival order, got %v`, values)
	}
}

func TestEmitter_dispose_stopsDelivery(t *testing.T) {
	var (
		emitter Emitter[int]
		values  []int
	)
	handle := emitter.Subscribe(Observer[int]{OnNext: func(value int) { values = append(values, value) }})
	emitter.Emit(1)
	handle.Dispose()
	handle.Dispose() // idempotent
	emitter.Emit(2)
	if !reflect.DeepEqual(values, []int{1}) {
		t.Errorf(`expected no delivery after dispose, got %v`, values)
	}
}

func TestEmitter_Complete(t *testing.T) {
	var (
		emitter   Emitter[int]
		completed int
		values    []int
	)
	emitter.Subscribe(Observer[int]{
		OnNext:     func(value int) { values = append(values, value) },
		OnComplete: func() { completed++ },
	})
	emitter.Complete()
	emitter.Complete() // no-op
	emitter.Emit(1)    // no-op
	if completed != 1 || len(values) != 0 {
		t.Errorf(`expected single completion and no values, got %d %v`, completed, values)
	}

	// late subscribers receive the terminal signal immediately
	emitter.Subscribe(Observer[int]{
		OnNext:     func(value int) { t.Error(`unexpected value`) },
		OnComplete: func() { completed++ },
	})
	if completed != 2 {
		t.Errorf(`expected immediate completion for late subscriber, got %d`, completed)
	}
}

func TestEmitter_Fail(t *testing.T) {
	var (
		emitter  Emitter[int]
		expected = errors.New(`some error`)
		received []error
	)
	emitter.Subscribe(Observer[int]{
		OnNext:  func(value int) { t.Error(`unexpected value`) },
		OnError: func(err error) { received = append(received, err) },
	})
	emitter.Fail(expected)
	emitter.Fail(errors.New(`another error`)) // no-op
	emitter.Subscribe(Observer[int]{
		OnNext:  func(value int) { t.Error(`unexpected value`) },
		OnError: func(err error) { received = append(received, err) },
	})
	if len(received) != 2 || received[0] != expected || received[1] != expected {
		t.Errorf(`expected the first error, twice, got %v`, received)
	}
}

func TestEmitter_Fail_nilError(t *testing.T) {
	var emitter Emitter[int]
	expectPanic(t, `eventstream: nil error`, func() {
		emitter.Fail(nil)
	})
}

func TestEmitter_concurrentEmit(t *testing.T) {
	var (
		emitter Emitter[int]
		mu      sync.Mutex
		count   int
	)
	handle := emitter.Subscribe(Observer[int]{OnNext: func(value int) {
		mu.Lock()
		count++
		mu.Unlock()
	}})
	defer handle.Dispose()

	const numEmits = 100
	var wg sync.WaitGroup
	wg.Add(numEmits)
	for i := 0; i < numEmits; i++ {
		go func(i int) {
			defer wg.Done()
			emitter.Emit(i)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != numEmits {
		t.Errorf(`expected %d deliveries, got %d`, numEmits, count)
	}
}

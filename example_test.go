package eventstream_test

import (
	"context"
	"fmt"

	eventstream "github.com/joeycumines/go-eventstream"
)

type exampleSensor struct {
	eventstream.PropertyNotifier
	temperature float64
}

func (x *exampleSensor) Temperature() float64 { return x.temperature }

func (x *exampleSensor) SetTemperature(temperature float64) {
	x.temperature = temperature
	x.NotifyChanged(`Temperature`)
}

// Demonstrates projecting a single named property into a typed stream,
// including the initial replay of the current value.
func ExampleObserveProperty() {
	sensor := &exampleSensor{temperature: 20.5}

	handle := eventstream.ObserveProperty(sensor, `Temperature`, (*exampleSensor).Temperature).
		Subscribe(eventstream.Observer[float64]{
			OnNext: func(value float64) { fmt.Printf("temperature: %.1f\n", value) },
		})
	defer handle.Dispose()

	sensor.SetTemperature(21.0)
	sensor.SetTemperature(19.5)

	//output:
	//temperature: 20.5
	//temperature: 21.0
	//temperature: 19.5
}

// Demonstrates accumulating values while a predicate holds, flushing a batch
// each time it fails - the failing value triggers the flush, and is consumed.
func ExampleBufferWhile() {
	var readings eventstream.Emitter[int]

	handle := eventstream.BufferWhile[int](&readings, func(value int) bool { return value >= 0 }).
		Subscribe(eventstream.Observer[[]eventstream.Timestamped[int]]{
			OnNext: func(batch []eventstream.Timestamped[int]) {
				values := make([]int, len(batch))
				for i, item := range batch {
					values[i] = item.Value
				}
				fmt.Println(`batch:`, values)
			},
		})
	defer handle.Dispose()

	readings.Emit(1)
	readings.Emit(2)
	readings.Emit(3)
	readings.Emit(-1)
	readings.Emit(4)
	readings.Emit(-1)

	//output:
	//batch: [1 2 3]
	//batch: [4]
}

// Demonstrates dispatching work for each value of a stream, strictly one at a
// time, waiting for the run to settle.
func ExampleGoSequential() {
	var source eventstream.Emitter[string]

	run := eventstream.GoSequential[string](context.Background(), nil, &source, func(ctx context.Context, value string) error {
		fmt.Println(`processed:`, value)
		return nil
	})

	go func() {
		source.Emit(`a`)
		source.Emit(`b`)
		source.Emit(`c`)
		source.Complete()
	}()

	if err := run.Wait(context.Background()); err != nil {
		panic(err)
	}

	//output:
	//processed: a
	//processed: b
	//processed: c
}

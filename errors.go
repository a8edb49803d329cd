package eventstream

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned by Await, or delivered by FromAsync, when the
	// deadline elapses before the wrapped operation completes.
	ErrTimeout = errors.New(`eventstream: timeout`)

	// ErrGoexit is returned when a wrapped operation's goroutine exits via
	// runtime.Goexit, rather than returning.
	ErrGoexit = errors.New(`eventstream: operation goroutine exited via runtime.Goexit`)
)

// PanicError wraps a panic recovered from a wrapped asynchronous operation.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf(`eventstream: operation panicked: %v`, e.Value)
}

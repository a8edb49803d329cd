package eventstream

import (
	"runtime"
	"testing"
	"time"
)

// checkNumGoroutines guards against goroutine leaks, polling until the count
// returns to at most its initial value, or the timeout is reached.
func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	count := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			if runtime.NumGoroutine() <= count {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`expected at most %d goroutines, got %d`, count, runtime.NumGoroutine())
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}

// expectPanic asserts fn panics with the given value.
func expectPanic(t *testing.T, expected string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if r := recover(); r != expected {
			t.Errorf(`expected panic %q, got %v`, expected, r)
		}
	}()
	fn()
}

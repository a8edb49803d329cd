// Package eventstream provides small, composable primitives for push-based
// event streams, e.g. buffering, property-change projection, timeout-bounded
// async bridging, and controlled-concurrency async fan-out.
//
// See also [github.com/joeycumines/go-eventstream/kvstore], for the
// thread-safe, synchronous key-value store intended as shared state beneath
// these streams.
package eventstream

// Package bg provides an abstraction for running functions in the background.
//
// Every goroutine the lime runtime starts on its own behalf goes through a
// Runner, so the concurrency behavior can be switched (asynchronous,
// synchronous for debugging, or pinned to a dedicated OS thread for
// thread-affine work) without changing the calling code.
package bg

// Runner is an interface for executing functions, either synchronously or asynchronously.
type Runner interface {
	// Do executes the given function.
	// The implementation determines whether this happens synchronously or asynchronously.
	Do(fn func())
}

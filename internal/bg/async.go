package bg

// Async is a Runner that executes functions asynchronously in a new goroutine.
//
// This is the default for short-lived work: the goroutine is multiplexed on
// the shared scheduler threads.
type Async struct{}

// Do executes the function in a new goroutine.
func (Async) Do(fn func()) {
	go fn()
}

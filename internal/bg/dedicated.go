package bg

import "runtime"

// Dedicated is a Runner that executes each function in a new goroutine
// wired to its own OS thread for the whole call.
//
// fn sees the same OS thread for its whole call, which thread-affine work
// (thread-local state, some cgo libraries) needs. Locking does not take the
// goroutine off the scheduler: it still needs a P to run, and bounding how
// many run at once is the caller's job. The thread is released back to the
// runtime when fn returns.
type Dedicated struct{}

// Do executes the function in a new goroutine locked to an OS thread.
func (Dedicated) Do(fn func()) {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
}

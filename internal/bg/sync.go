package bg

// Sync is a Runner that executes functions synchronously in the current goroutine.
//
// This is the debug mode (LIME_DEBUG_SINGLE_THREAD): each Do call blocks
// until the function completes, making execution order deterministic.
type Sync struct{}

// Do executes the function immediately in the current goroutine.
func (Sync) Do(fn func()) {
	fn()
}

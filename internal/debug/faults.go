package debug

import (
	"fmt"
	"sync"
	"time"
)

// FaultProfile defines faults that can be injected for testing.
// All faults are one-shot (consumed after check).
type FaultProfile struct {
	mu sync.RWMutex

	// FailNextResolution makes the next command URI resolution fail (one-shot)
	FailNextResolution bool

	// DelayNextIsolatedTask delays the start of the next isolated task (one-shot, must be >= 0)
	DelayNextIsolatedTask time.Duration

	// CancelNextAwait makes the next runtime-level await report cancellation (one-shot)
	CancelNextAwait bool
}

// Faults is the global fault profile
var Faults = &FaultProfile{}

// SetFailNextResolution enables/disables resolution failure
func (f *FaultProfile) SetFailNextResolution(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailNextResolution = enabled
}

// ShouldFailResolution checks and consumes the resolution failure flag
func (f *FaultProfile) ShouldFailResolution() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNextResolution {
		f.FailNextResolution = false
		return true
	}
	return false
}

// SetDelayNextIsolatedTask sets the delay for the next isolated task.
// Returns an error if d is negative.
func (f *FaultProfile) SetDelayNextIsolatedTask(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("delay must be non-negative, got %s", d)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DelayNextIsolatedTask = d
	return nil
}

// TakeIsolatedTaskDelay gets and clears the isolated task delay
func (f *FaultProfile) TakeIsolatedTaskDelay() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.DelayNextIsolatedTask
	f.DelayNextIsolatedTask = 0
	return d
}

// SetCancelNextAwait enables/disables forced await cancellation
func (f *FaultProfile) SetCancelNextAwait(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CancelNextAwait = enabled
}

// ShouldCancelAwait checks and consumes the await cancellation flag
func (f *FaultProfile) ShouldCancelAwait() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CancelNextAwait {
		f.CancelNextAwait = false
		return true
	}
	return false
}

// Reset clears all fault flags
func (f *FaultProfile) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailNextResolution = false
	f.DelayNextIsolatedTask = 0
	f.CancelNextAwait = false
}

// Snapshot returns the current state of all faults as a map.
// The snapshot is a point-in-time view and won't reflect subsequent changes.
func (f *FaultProfile) Snapshot() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return map[string]any{
		"fail_next_resolution":        f.FailNextResolution,
		"delay_next_isolated_task_ms": f.DelayNextIsolatedTask.Milliseconds(),
		"cancel_next_await":           f.CancelNextAwait,
	}
}

package cancellation

import (
	"context"
	"sync"
	"time"

	"github.com/sufield/lime/internal/notify"
)

// Event describes a fired signal.
type Event struct {
	// At is when the signal fired.
	At time.Time
	// Cause is context.Canceled for an explicit Cancel, context.DeadlineExceeded
	// for an elapsed time-to-live, or the parent's cause.
	Cause error
}

// Source is a one-shot cancellation signal.
//
// It transitions from not-cancelled to cancelled at most once and never
// back. All methods are safe for concurrent use.
type Source struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu    sync.RWMutex
	fired bool
	event Event

	listeners notify.List[Event]

	once       sync.Once
	timer      *time.Timer
	stopParent func() bool
	now        func() time.Time
}

// NewSource returns a signal that fires on Cancel or when parent is done.
//
// The signal's context keeps parent's values but is not a child of parent
// for cancellation purposes; parent cancellation is forwarded through a
// registration that Close releases.
func NewSource(parent context.Context) *Source {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancelCause(context.WithoutCancel(parent))
	s := &Source{
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
	s.mu.Lock()
	s.stopParent = context.AfterFunc(parent, func() {
		s.fire(context.Cause(parent))
	})
	s.mu.Unlock()
	return s
}

// NewSourceAfter returns a signal that also fires by itself once d has
// elapsed. A non-positive d fires immediately.
func NewSourceAfter(parent context.Context, d time.Duration) *Source {
	s := NewSource(parent)
	if d <= 0 {
		s.fire(context.DeadlineExceeded)
		return s
	}

	s.mu.Lock()
	if !s.fired {
		s.timer = time.AfterFunc(d, func() { s.fire(context.DeadlineExceeded) })
	}
	s.mu.Unlock()
	return s
}

// Context returns a context that is done once the signal fires.
// context.Cause on it reports the Event cause.
func (s *Source) Context() context.Context {
	return s.ctx
}

// Done is shorthand for Context().Done().
func (s *Source) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Cancel fires the signal. Calls after the first have no effect.
func (s *Source) Cancel() {
	s.fire(context.Canceled)
}

// CancelWithCause fires the signal with a custom cause.
// A nil cause is recorded as context.Canceled.
func (s *Source) CancelWithCause(cause error) {
	if cause == nil {
		cause = context.Canceled
	}
	s.fire(cause)
}

// Cancelled reports whether the signal has fired.
func (s *Source) Cancelled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fired
}

// CancelledAt returns the time the signal fired, and false if it has not.
func (s *Source) CancelledAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.event.At, s.fired
}

// Cause returns the fire cause, or nil if the signal has not fired.
func (s *Source) Cause() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.event.Cause
}

// OnCancel registers fn to run once when the signal fires. If it already
// fired, fn runs immediately on the caller's goroutine. Handlers run
// synchronously on the goroutine that fires the signal and must not block.
func (s *Source) OnCancel(fn func(Event)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.RLock()
	if s.fired {
		ev := s.event
		s.mu.RUnlock()
		fn(ev)
		return func() {}
	}
	// Holding the read lock keeps fire from flipping state between the
	// check and the subscription.
	unsubscribe = s.listeners.Subscribe(fn)
	s.mu.RUnlock()
	return unsubscribe
}

// Close releases the timer and the parent registration without firing
// the signal. It is safe to call more than once and after the signal fired.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

// release must be called with mu held.
func (s *Source) release() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stopParent != nil {
		s.stopParent()
		s.stopParent = nil
	}
}

func (s *Source) fire(cause error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.fired = true
		s.event = Event{At: s.now(), Cause: cause}
		ev := s.event
		s.release()
		s.mu.Unlock()

		// Handlers run before the context is done, so a reader woken by
		// Done observes every handler's effect.
		s.listeners.Notify(ev)
		s.listeners.Clear()
		s.cancel(cause)
	})
}

package cancellation

import (
	"fmt"
	"sync"

	"github.com/sufield/lime/internal/bg"
)

// Future is the handle of an operation that has already started.
// Its result is set exactly once.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	value T
	err   error
}

// NewPromise returns a pending Future and the function that completes it.
// Only the first call to complete has an effect.
func NewPromise[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.complete
}

// Go starts fn on a new goroutine and returns its Future.
func Go[T any](fn func() (T, error)) *Future[T] {
	return GoWith(bg.Async{}, fn)
}

// GoWith starts fn through runner and returns its Future. A panic in fn
// completes the Future with an error wrapping ErrOperationPanicked.
func GoWith[T any](runner bg.Runner, fn func() (T, error)) *Future[T] {
	f, complete := NewPromise[T]()
	runner.Do(func() {
		complete(call(fn))
	})
	return f
}

// Completed returns a Future that is already done.
func Completed[T any](value T, err error) *Future[T] {
	f, complete := NewPromise[T]()
	complete(value, err)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the result is available without blocking.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result blocks until the operation completes and returns its result.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

func call[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = fmt.Errorf("%w: %v", ErrOperationPanicked, r)
		}
	}()
	return fn()
}

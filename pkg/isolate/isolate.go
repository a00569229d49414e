// Package isolate runs long-running or blocking work away from the
// goroutines that serve short-lived scheduling.
//
// At most MaxWorkers submitted tasks run at once; that bound is what keeps
// blocking work from crowding out everything else. Each task runs on a
// goroutine wired to its own OS thread (bg.Dedicated) so thread-affine
// work sees one thread for its whole call. Waiting for a worker slot
// happens on a plain goroutine, never on the caller's and never on a
// dedicated thread.
//
// The context passed to Run is handed to the work for cooperative early
// exit. Work that ignores it runs to completion: the isolator never
// interrupts it. Errors and panics in work surface as the Future's error.
package isolate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	rtdebug "runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sufield/lime/internal/assert"
	"github.com/sufield/lime/internal/bg"
	"github.com/sufield/lime/internal/debug"
	"github.com/sufield/lime/internal/metrics"
	"github.com/sufield/lime/pkg/cancellation"
)

var (
	// ErrClosed is returned for work submitted after Shutdown.
	ErrClosed = errors.New("isolator is shut down")

	// ErrNotStarted is returned when the context is done before the work
	// obtained a worker. The work was never called.
	ErrNotStarted = errors.New("isolated work not started")
)

// Observer receives task lifecycle events. *metrics.Metrics implements it.
type Observer interface {
	TaskStarted(waitSeconds float64)
	TaskFinished(outcome string)
	TaskRejected(outcome string)
}

// Isolator dispatches work onto dedicated workers.
type Isolator struct {
	dispatch   bg.Runner
	worker     bg.Runner
	sem        *semaphore.Weighted
	maxWorkers int64
	logger     *slog.Logger
	observer   Observer

	mu      sync.RWMutex // guards closed against wg.Add racing Shutdown's Wait
	closed  bool
	wg      sync.WaitGroup
	running atomic.Int64
	pending atomic.Int64
}

// Option configures an Isolator.
type Option func(*Isolator)

// WithMaxWorkers bounds the number of concurrently running tasks.
// Values below 1 are ignored.
func WithMaxWorkers(n int) Option {
	return func(i *Isolator) {
		if n > 0 {
			i.maxWorkers = int64(n)
		}
	}
}

// WithRunner replaces the worker runner (default bg.Dedicated).
func WithRunner(r bg.Runner) Option {
	return func(i *Isolator) {
		if r != nil {
			i.worker = r
		}
	}
}

// WithSingleThreaded runs every task synchronously on the caller's
// goroutine. Debug only.
func WithSingleThreaded() Option {
	return func(i *Isolator) {
		i.dispatch = bg.Sync{}
		i.worker = bg.Sync{}
	}
}

// WithLogger sets a structured logger.
// If logger is nil, uses io.Discard for silent operation
func WithLogger(logger *slog.Logger) Option {
	return func(i *Isolator) {
		if logger != nil {
			i.logger = logger
		} else {
			i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(i *Isolator) {
		i.observer = o
	}
}

// DefaultMaxWorkers is the worker bound when none is configured.
func DefaultMaxWorkers() int {
	return max(4, runtime.GOMAXPROCS(0)*4)
}

// New creates an Isolator.
func New(opts ...Option) *Isolator {
	i := &Isolator{
		dispatch:   bg.Async{},
		worker:     bg.Dedicated{},
		maxWorkers: int64(DefaultMaxWorkers()),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.sem = semaphore.NewWeighted(i.maxWorkers)
	return i
}

// MaxWorkers returns the worker bound.
func (i *Isolator) MaxWorkers() int {
	return int(i.maxWorkers)
}

// Running returns the number of tasks holding a worker.
func (i *Isolator) Running() int {
	return int(i.running.Load())
}

// Pending returns the number of tasks waiting for a worker.
func (i *Isolator) Pending() int {
	return int(i.pending.Load())
}

// Run submits work and returns its Future immediately.
//
// Run is a function rather than a method because Go methods cannot have
// type parameters.
func Run[T any](i *Isolator, ctx context.Context, work func(context.Context) (T, error)) *cancellation.Future[T] {
	fut, complete := cancellation.NewPromise[T]()
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}

	i.mu.RLock()
	if i.closed {
		i.mu.RUnlock()
		i.reject(metrics.OutcomeError)
		complete(zero, ErrClosed)
		return fut
	}
	i.wg.Add(1)
	i.mu.RUnlock()

	i.pending.Add(1)
	queued := time.Now()

	i.dispatch.Do(func() {
		if err := i.sem.Acquire(ctx, 1); err != nil {
			i.pending.Add(-1)
			i.reject(metrics.OutcomeCancelled)
			i.wg.Done()
			complete(zero, fmt.Errorf("%w: %w", ErrNotStarted, context.Cause(ctx)))
			return
		}
		i.pending.Add(-1)

		i.worker.Do(func() {
			defer i.wg.Done()
			defer i.sem.Release(1)

			n := i.running.Add(1)
			defer i.running.Add(-1)
			assert.Invariantf(n <= i.maxWorkers, "running %d exceeds max %d", n, i.maxWorkers)
			if i.observer != nil {
				i.observer.TaskStarted(time.Since(queued).Seconds())
			}

			if delay := debug.Faults.TakeIsolatedTaskDelay(); delay > 0 {
				time.Sleep(delay)
			}

			value, outcome, err := execute(i.logger, ctx, work)
			if i.observer != nil {
				i.observer.TaskFinished(outcome)
			}
			complete(value, err)
		})
	})

	return fut
}

// execute runs work and turns a panic into an error wrapping
// cancellation.ErrOperationPanicked.
func execute[T any](logger *slog.Logger, ctx context.Context, work func(context.Context) (T, error)) (value T, outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			outcome = metrics.OutcomePanicked
			err = fmt.Errorf("%w: %v", cancellation.ErrOperationPanicked, r)
			logger.Error("isolated task panicked", "panic", r, "stack", string(rtdebug.Stack()))
		}
	}()

	value, err = work(ctx)
	switch {
	case err == nil:
		outcome = metrics.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeCancelled
		logger.Debug("isolated task exited early", "error", err)
	default:
		outcome = metrics.OutcomeError
		logger.Warn("isolated task failed", "error", err)
	}
	return value, outcome, err
}

func (i *Isolator) reject(outcome string) {
	if i.observer != nil {
		i.observer.TaskRejected(outcome)
	}
}

// Shutdown stops accepting work and waits for submitted work to finish or
// for ctx to be done, whichever is first. Running work is not interrupted.
func (i *Isolator) Shutdown(ctx context.Context) error {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()

	done := make(chan struct{})
	go func() {
		i.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("isolator shutdown: %d task(s) still running: %w", i.Running()+i.Pending(), ctx.Err())
	}
}

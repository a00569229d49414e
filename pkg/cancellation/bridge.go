package cancellation

import (
	"context"
	"fmt"

	"github.com/sufield/lime/internal/bg"
)

// Await waits for whichever comes first: f completing or ctx being done.
//
// If f completes first its result is returned. If ctx wins, Await returns an
// error wrapping both ErrOperationCancelled and context.Cause(ctx); the
// operation is not stopped and its result is dropped. When both are ready
// at the time of the call, the operation's result wins.
func Await[T any](ctx context.Context, f *Future[T]) (T, error) {
	value, _, err := race(ctx, f)
	return value, err
}

// AwaitOrphan is Await that hands an orphaned result to reclaim.
//
// When ctx wins the race, reclaim is called exactly once with the
// operation's eventual result, on a background goroutine, so whatever the
// operation acquired can be released. reclaim is not called when the
// operation wins.
func AwaitOrphan[T any](ctx context.Context, f *Future[T], reclaim func(T, error)) (T, error) {
	value, completed, err := race(ctx, f)
	if !completed && f != nil && reclaim != nil {
		bg.Async{}.Do(func() {
			reclaim(f.Result())
		})
	}
	return value, err
}

// AwaitSource is Await using s as the signal.
func AwaitSource[T any](s *Source, f *Future[T]) (T, error) {
	return Await(s.Context(), f)
}

// race reports completed=true when the result came from f.
func race[T any](ctx context.Context, f *Future[T]) (value T, completed bool, err error) {
	if f == nil {
		return value, false, ErrNilFuture
	}

	select {
	case <-f.Done():
		value, err = f.Result()
		return value, true, err
	default:
	}

	select {
	case <-f.Done():
		value, err = f.Result()
		return value, true, err
	case <-ctx.Done():
		return value, false, fmt.Errorf("%w: %w", ErrOperationCancelled, context.Cause(ctx))
	}
}

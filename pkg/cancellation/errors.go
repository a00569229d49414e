package cancellation

import "errors"

var (
	// ErrOperationCancelled is returned by Await when the cancellation signal
	// fires before the operation completes. The operation itself was not stopped.
	ErrOperationCancelled = errors.New("operation cancelled")

	// ErrOperationPanicked wraps a panic raised by an operation started with Go.
	ErrOperationPanicked = errors.New("operation panicked")

	// ErrNilFuture is returned by Await when no operation was supplied.
	ErrNilFuture = errors.New("future cannot be nil")
)

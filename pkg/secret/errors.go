package secret

import "errors"

var (
	// ErrNullInput is returned when a required input (string, slice or buffer) is nil.
	ErrNullInput = errors.New("secret: nil input")

	// ErrReleased is returned when a buffer is used after Release.
	ErrReleased = errors.New("secret: buffer released")

	// ErrAllocate is returned when protected storage cannot be obtained.
	ErrAllocate = errors.New("secret: cannot allocate protected storage")
)

package domain

import (
	"errors"
)

// Sentinel errors for domain parsing failures.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context

var (
	// ErrMalformedIdentity indicates text does not have the name@domain shape
	ErrMalformedIdentity = errors.New("malformed identity")

	// ErrMalformedNode indicates text does not have the name@domain[/instance] shape
	ErrMalformedNode = errors.New("malformed node")

	// ErrMalformedMediaType indicates text is not a type/subtype media type
	ErrMalformedMediaType = errors.New("malformed media type")
)

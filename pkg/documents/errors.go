package documents

import "errors"

var (
	// ErrDuplicateMediaType is returned when a media type is already bound to a kind.
	ErrDuplicateMediaType = errors.New("media type already registered")

	// ErrDuplicateKind is returned when a kind is already bound to a media type.
	ErrDuplicateKind = errors.New("document kind already registered")

	// ErrInvalidRegistration is returned for an empty kind or a nil decoder.
	ErrInvalidRegistration = errors.New("invalid document registration")

	// ErrUnknownMediaType is returned by Decode and Encode for unregistered media types.
	// Resolve reports the same condition as KindUnknown instead.
	ErrUnknownMediaType = errors.New("unknown media type")

	// ErrDecode wraps payload decoding failures.
	ErrDecode = errors.New("cannot decode document")
)

package addressing

import "errors"

// Resolution errors. They are deterministic given their inputs; retrying
// does not help.
var (
	// ErrMissingURI indicates the command (or its resource URI) is absent
	ErrMissingURI = errors.New("command has no resource URI")

	// ErrMissingSender indicates a relative URI arrived without a From node to resolve against
	ErrMissingSender = errors.New("relative resource URI requires a sender")

	// ErrUnsupportedHost indicates the URI host is empty or an IP literal rather than a DNS name
	ErrUnsupportedHost = errors.New("URI host is not a DNS name")

	// ErrMissingUser indicates the URI carries no user-info to use as the identity name
	ErrMissingUser = errors.New("URI has no user-info")

	// ErrOpaqueURI indicates an opaque URI (scheme:opaque) that has neither authority nor path
	ErrOpaqueURI = errors.New("opaque URI cannot be resolved")

	// ErrNoSPIFFEID indicates a certificate does not carry a usable SPIFFE ID
	ErrNoSPIFFEID = errors.New("certificate has no usable SPIFFE ID")

	// ErrFaultInjected is returned when the debug fault profile fails a resolution
	ErrFaultInjected = errors.New("resolution failed by injected fault")
)

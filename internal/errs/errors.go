package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrInvalid  = errors.New("invalid")
	// ErrUnavailable indicates the backing store cannot be reached (HTTP 503).
	ErrUnavailable = errors.New("unavailable")
)

package types

import "errors"

// Domain specific errors shared across services and handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")

	// ErrUpstreamUnavailable marks a failed or malformed response from the
	// weather provider. Callers decide whether a stale fallback applies.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)

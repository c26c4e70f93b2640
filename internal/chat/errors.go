package chat

import "errors"

// Common error kinds for conversation operations.
var (
	// ErrTransport marks a failed connection or a non-2xx response.
	ErrTransport = errors.New("transport failure")
	// ErrTimeout marks a call that exceeded its deadline. The remote side
	// may still be working, so callers must not treat it as ErrTransport.
	ErrTimeout = errors.New("request deadline exceeded")
	// ErrValidation marks required local input that is missing; it is
	// raised before any network call.
	ErrValidation = errors.New("missing required input")
	// ErrBusy marks a send attempted while another one is in flight for
	// the same session.
	ErrBusy = errors.New("request already in flight")
)

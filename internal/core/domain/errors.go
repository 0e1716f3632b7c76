package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Failure kinds surfaced by driven adapters.
	// Adapters wrap the underlying cause so both the kind and the cause
	// can be matched with errors.Is.

	// ErrNetwork indicates the remote fetch failed: transport error,
	// timeout or a non-2xx response.
	ErrNetwork = errors.New("network error")

	// ErrDecode indicates the remote payload could not be decoded.
	ErrDecode = errors.New("decode error")

	// ErrStorage indicates a local persistence operation failed.
	ErrStorage = errors.New("storage error")
)

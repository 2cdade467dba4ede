// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable indicates the remote store is not configured or unreachable.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

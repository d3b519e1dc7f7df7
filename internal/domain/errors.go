package domain

import "errors"

// Sentinel errors for common domain failures.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context.

var (
	// ErrClosed indicates an accessor was called on a source that has been closed.
	// Once a source reports ErrClosed it reports it forever; the state is terminal.
	ErrClosed = errors.New("source is closed")

	// ErrBundleNotFound indicates no bundle exists for the requested trust domain.
	ErrBundleNotFound = errors.New("no bundle found for trust domain")

	// ErrNoCandidates indicates an update carried an empty credential list,
	// leaving the selector nothing to choose from.
	ErrNoCandidates = errors.New("update contains no credentials")

	// ErrInvalidTrustDomain indicates a trust domain is nil or empty.
	ErrInvalidTrustDomain = errors.New("trust domain cannot be nil or empty")
)

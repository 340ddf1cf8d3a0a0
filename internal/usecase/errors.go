package usecase

import "errors"

var (
	// ErrInvalidInput marks a record or argument whose shape fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing sync prerequisite: data source, parent league
	// mapping, or parent season mapping. Aborts the whole invocation.
	ErrNotFound = errors.New("resource not found")
	// ErrFetchFailed marks a transport or malformed-response failure from the
	// schedule provider. Aborts the invocation; the transaction rolls back.
	ErrFetchFailed = errors.New("provider fetch failed")
	// ErrConflict marks a uniqueness violation raised under concurrent runs.
	ErrConflict = errors.New("conflicting concurrent write")
	// ErrDependencyUnavailable marks a disabled or unconfigured dependency.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

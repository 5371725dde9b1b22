package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotANote marks a filename that does not match the note grammar
	// where a managed note was required. During corpus scans the same
	// condition is a silent filter, not an error.
	ErrNotANote = errors.New("not a note")

	// ErrVaultNotConfigured is returned before any filesystem access when
	// the notes directory was never configured.
	ErrVaultNotConfigured = errors.New("vault directory not configured")

	// ErrNoSelection means the user canceled an interactive pick or
	// submitted blank input. Callers treat it as a no-op, not a failure.
	ErrNoSelection = errors.New("nothing selected")
)

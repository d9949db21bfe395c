package types

import "errors"

// Standard errors surfaced by the storage layer. Callers match with
// errors.Is; the storage layer wraps driver errors around these so the
// original cause stays visible in the chain.
var (
	// ErrStorageUnavailable means the database file could not be opened or
	// created. Fatal; not retried.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCompanyName means a blank or whitespace-only company name
	// was passed where a real name is required.
	ErrInvalidCompanyName = errors.New("company name is blank")

	// ErrConstraint means a uniqueness or integrity constraint rejected
	// the write.
	ErrConstraint = errors.New("constraint violation")

	// ErrBusy means the database lock wait timed out. Retryable; callers
	// should back off and retry rather than treat it as data loss.
	ErrBusy = errors.New("database is busy")
)

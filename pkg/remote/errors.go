package remote

import "errors"

var (
	// ErrNotFound is returned when the referenced notification does not exist.
	ErrNotFound = errors.New("remote: notification not found")

	// ErrUnexpectedStatus is returned by the HTTP client for non-2xx responses.
	ErrUnexpectedStatus = errors.New("remote: unexpected response status")

	// ErrMigrationFailed wraps goose errors while applying the Postgres schema.
	ErrMigrationFailed = errors.New("remote: failed to apply migrations")
)

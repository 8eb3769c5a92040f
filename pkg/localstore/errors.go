package localstore

import "errors"

var (
	// ErrNotFound is returned by Storage.Get when the key has no value.
	ErrNotFound = errors.New("localstore: key not found")

	// ErrNoIdentity is returned when a Bridge operation is attempted without an identity id.
	ErrNoIdentity = errors.New("localstore: identity id is required")

	// ErrRedisNotReady is returned when the Redis server cannot be reached within the retry budget.
	ErrRedisNotReady = errors.New("localstore: redis did not become ready within the given time period")

	// ErrInvalidRedisURL is returned when the Redis connection string cannot be parsed.
	ErrInvalidRedisURL = errors.New("localstore: failed to parse redis connection string")
)

package center

import "errors"

var (
	// ErrNoIdentity is returned when Init is called without an authenticated identity.
	ErrNoIdentity = errors.New("center: no authenticated identity")
)

package realtime

import "errors"

var (
	// ErrUnauthorized is returned by transports when the credentials are rejected.
	ErrUnauthorized = errors.New("realtime: connection rejected, invalid credentials")

	// ErrTransportClosed is returned when emitting on a closed connection.
	ErrTransportClosed = errors.New("realtime: transport connection closed")
)

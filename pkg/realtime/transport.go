package realtime

import "context"

// Credentials authenticate a connection attempt.
type Credentials struct {
	IdentityID string
	Token      string
}

// Conn is one live bidirectional connection.
type Conn interface {
	// Events delivers inbound events. The channel closes when the
	// connection drops and the transport's own retry policy is exhausted.
	Events() <-chan Event

	// Emit sends a named event to the server.
	Emit(ctx context.Context, event string, payload any) error

	// Close tears the connection down. Idempotent.
	Close() error
}

// Transport opens authenticated connections. Implementations own their
// reconnection policy; the adapter only supervises dial failures.
type Transport interface {
	Dial(ctx context.Context, creds Credentials) (Conn, error)
}

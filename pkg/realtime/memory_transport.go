package realtime

import (
	"context"
	"sync"

	"github.com/verifiedtutors/notifykit/pkg/broadcast"
)

// Emitted records one outbound message sent through a memory connection.
type Emitted struct {
	IdentityID string
	Event      string
	Payload    any
}

// MemoryTransport is an in-process Transport. Events pushed for an identity
// are delivered to every live connection dialed with that identity, and all
// outbound messages are recorded for inspection. Used in tests and local
// development.
type MemoryTransport struct {
	authorize func(Credentials) error

	mu      sync.Mutex
	hubs    map[string]*broadcast.MemoryBroadcaster[Event]
	emitted []Emitted
	closed  bool
}

// MemoryTransportOption configures a MemoryTransport.
type MemoryTransportOption func(*MemoryTransport)

// WithAuthorizer installs a credential check run on every Dial. Returning an
// error makes the dial fail.
func WithAuthorizer(fn func(Credentials) error) MemoryTransportOption {
	return func(t *MemoryTransport) {
		t.authorize = fn
	}
}

// NewMemoryTransport creates an in-process transport.
func NewMemoryTransport(opts ...MemoryTransportOption) *MemoryTransport {
	t := &MemoryTransport{
		hubs: make(map[string]*broadcast.MemoryBroadcaster[Event]),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dial implements Transport.
func (t *MemoryTransport) Dial(ctx context.Context, creds Credentials) (Conn, error) {
	if creds.IdentityID == "" || creds.Token == "" {
		return nil, ErrUnauthorized
	}
	if t.authorize != nil {
		if err := t.authorize(creds); err != nil {
			return nil, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrTransportClosed
	}

	hub, ok := t.hubs[creds.IdentityID]
	if !ok {
		hub = broadcast.NewMemoryBroadcaster[Event](16)
		t.hubs[creds.IdentityID] = hub
	}

	sub := hub.Subscribe(ctx)
	return &memoryConn{
		transport:  t,
		identityID: creds.IdentityID,
		sub:        sub,
	}, nil
}

// Push delivers an event to every live connection for the identity.
func (t *MemoryTransport) Push(identityID string, ev Event) {
	t.mu.Lock()
	hub, ok := t.hubs[identityID]
	t.mu.Unlock()
	if ok {
		hub.Broadcast(ev)
	}
}

// Emitted returns a copy of all outbound messages sent so far.
func (t *MemoryTransport) Emitted() []Emitted {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Emitted, len(t.emitted))
	copy(out, t.emitted)
	return out
}

// Close shuts down all hubs; further dials fail with ErrTransportClosed.
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	for _, hub := range t.hubs {
		_ = hub.Close()
	}
	return nil
}

func (t *MemoryTransport) record(identityID, event string, payload any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitted = append(t.emitted, Emitted{IdentityID: identityID, Event: event, Payload: payload})
}

type memoryConn struct {
	transport  *MemoryTransport
	identityID string
	sub        broadcast.Subscriber[Event]

	mu     sync.Mutex
	closed bool
}

func (c *memoryConn) Events() <-chan Event {
	return c.sub.Receive()
}

func (c *memoryConn) Emit(ctx context.Context, event string, payload any) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrTransportClosed
	}
	c.transport.record(c.identityID, event, payload)
	return nil
}

func (c *memoryConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.sub.Close()
}

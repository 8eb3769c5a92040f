package session

import (
	"context"
	"sync"

	"github.com/verifiedtutors/notifykit/pkg/broadcast"
)

// Identity describes an authenticated user.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Change is published whenever the identity or its token changes.
// Identity is nil after logout.
type Change struct {
	Identity *Identity
	Token    string
}

// Session holds the current identity and credential token. The zero value is
// not usable; construct with New. All methods are safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	identity *Identity
	token    string
	feed     *broadcast.MemoryBroadcaster[Change]
}

// New creates an unauthenticated session.
func New() *Session {
	return &Session{
		feed: broadcast.NewMemoryBroadcaster[Change](8),
	}
}

// Set authenticates the session as the given identity with its token and
// publishes the change.
func (s *Session) Set(identity Identity, token string) {
	s.mu.Lock()
	ident := identity
	s.identity = &ident
	s.token = token
	s.mu.Unlock()

	s.feed.Broadcast(Change{Identity: &ident, Token: token})
}

// SetToken replaces the credential token for the current identity, leaving
// the identity untouched. A no-op when unauthenticated.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return
	}
	s.token = token
	ident := *s.identity
	s.mu.Unlock()

	s.feed.Broadcast(Change{Identity: &ident, Token: token})
}

// Clear logs the session out and publishes the change. Idempotent.
func (s *Session) Clear() {
	s.mu.Lock()
	wasAuthenticated := s.identity != nil
	s.identity = nil
	s.token = ""
	s.mu.Unlock()

	if wasAuthenticated {
		s.feed.Broadcast(Change{})
	}
}

// Current returns the authenticated identity, or ok=false when logged out.
func (s *Session) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Token returns the current credential token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Changes subscribes to identity and token changes. The subscription ends
// when ctx is cancelled.
func (s *Session) Changes(ctx context.Context) broadcast.Subscriber[Change] {
	return s.feed.Subscribe(ctx)
}

// Close tears down the change feed.
func (s *Session) Close() error {
	return s.feed.Close()
}

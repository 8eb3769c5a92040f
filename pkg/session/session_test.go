package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "change feed closed")
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return Change{}
	}
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())

	s.Set(Identity{ID: "tutor-1", Role: "tutor"}, "tok-a")

	ident, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "tutor-1", ident.ID)
	assert.Equal(t, "tutor", ident.Role)
	assert.Equal(t, "tok-a", s.Token())

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSession_Changes(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	sub := s.Changes(context.Background())
	defer sub.Close()

	s.Set(Identity{ID: "student-7", Role: "student"}, "tok-1")
	change := nextChange(t, sub.Receive())
	require.NotNil(t, change.Identity)
	assert.Equal(t, "student-7", change.Identity.ID)
	assert.Equal(t, "tok-1", change.Token)

	s.SetToken("tok-2")
	change = nextChange(t, sub.Receive())
	require.NotNil(t, change.Identity)
	assert.Equal(t, "student-7", change.Identity.ID)
	assert.Equal(t, "tok-2", change.Token)

	s.Clear()
	change = nextChange(t, sub.Receive())
	assert.Nil(t, change.Identity)
	assert.Empty(t, change.Token)
}

func TestSession_SetTokenWithoutIdentity(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	sub := s.Changes(context.Background())
	defer sub.Close()

	s.SetToken("orphan")
	assert.Empty(t, s.Token())

	select {
	case c := <-sub.Receive():
		t.Fatalf("unexpected change event %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSession_ClearIdempotent(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	sub := s.Changes(context.Background())
	defer sub.Close()

	s.Clear()
	select {
	case c := <-sub.Receive():
		t.Fatalf("logout event without login: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

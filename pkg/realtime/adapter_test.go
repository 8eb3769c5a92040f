package realtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiedtutors/notifykit/pkg/center"
	"github.com/verifiedtutors/notifykit/pkg/localstore"
	"github.com/verifiedtutors/notifykit/pkg/remote"
	"github.com/verifiedtutors/notifykit/pkg/session"
)

type fixture struct {
	adapter   *Adapter
	transport *MemoryTransport
	center    *center.Center
	session   *session.Session
}

func newFixture(t *testing.T, transportOpts ...MemoryTransportOption) *fixture {
	t.Helper()

	sess := session.New()
	t.Cleanup(func() { _ = sess.Close() })

	c := center.New(sess, remote.NewMemoryService(),
		localstore.NewBridge(localstore.NewMemoryStorage()),
		center.WithSeeder(nil),
	)
	t.Cleanup(func() { _ = c.Close() })

	transport := NewMemoryTransport(transportOpts...)
	t.Cleanup(func() { _ = transport.Close() })

	a := NewAdapter(sess, c, transport, Config{
		MaxReconnectAttempts: 3,
		ReconnectDelay:       20 * time.Millisecond,
		DialTimeout:          time.Second,
	})
	t.Cleanup(a.Disconnect)

	return &fixture{adapter: a, transport: transport, center: c, session: sess}
}

func (f *fixture) login(t *testing.T, id string) {
	t.Helper()
	f.session.Set(session.Identity{ID: id, Role: "student"}, "token-"+id)
	require.NoError(t, f.center.Init(context.Background()))
}

func hasTitle(list []string, title string) bool {
	for _, v := range list {
		if v == title {
			return true
		}
	}
	return false
}

func centerTitles(c *center.Center) []string {
	all := c.All()
	out := make([]string, len(all))
	for i, u := range all {
		out[i] = u.Title
	}
	return out
}

func TestConnect_RequiresCredentials(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	require.NoError(t, f.adapter.Connect(context.Background()))
	assert.Equal(t, StateDisconnected, f.adapter.State())
}

func TestConnect_DeliversEventsToCenter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")

	require.NoError(t, f.adapter.Connect(context.Background()))
	require.Equal(t, StateConnected, f.adapter.State())

	f.transport.Push("user-1", Event{
		Type: EventNewNotification,
		Data: map[string]any{"type": "success", "title": "Lesson Booked", "message": "See you soon."},
	})

	assert.Eventually(t, func() bool {
		return hasTitle(centerTitles(f.center), "Lesson Booked")
	}, time.Second, 5*time.Millisecond)
}

func TestConnect_MapsBookingUpdates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")
	require.NoError(t, f.adapter.Connect(context.Background()))

	f.transport.Push("user-1", Event{
		Type: EventBookingUpdate,
		Data: map[string]any{
			"updateType": "confirmed",
			"booking":    map[string]any{"_id": "bk-1", "subject": "Math"},
		},
	})

	assert.Eventually(t, func() bool {
		for _, u := range f.center.All() {
			if u.Title == "Booking Confirmed" {
				assert.Contains(t, u.Message, "Math")
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestConnect_IgnoresPresenceEvents(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")
	require.NoError(t, f.adapter.Connect(context.Background()))

	f.transport.Push("user-1", Event{Type: EventTyping, Data: map[string]any{"room": "r1"}})
	f.transport.Push("user-1", Event{
		Type: EventSystemMessage,
		Data: map[string]any{"message": "maintenance tonight"},
	})

	assert.Eventually(t, func() bool {
		return hasTitle(centerTitles(f.center), "System Message")
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, f.center.All(), 1)
}

func TestConnect_SecondCallIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")

	require.NoError(t, f.adapter.Connect(context.Background()))
	require.NoError(t, f.adapter.Connect(context.Background()))
	assert.Equal(t, StateConnected, f.adapter.State())
}

func TestDisconnect_StopsDelivery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")
	require.NoError(t, f.adapter.Connect(context.Background()))

	f.adapter.Disconnect()
	assert.Equal(t, StateDisconnected, f.adapter.State())

	f.transport.Push("user-1", Event{
		Type: EventNewNotification,
		Data: map[string]any{"title": "After Disconnect"},
	})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.center.All())

	f.adapter.Disconnect() // idempotent
}

func TestOutbound_DroppedWhenDisconnected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.login(t, "user-1")

	f.adapter.JoinRoom(context.Background(), "class-1")
	f.adapter.Send(context.Background(), "chat_message", map[string]any{"text": "hi"})
	assert.Empty(t, f.transport.Emitted())

	require.NoError(t, f.adapter.Connect(context.Background()))
	f.adapter.JoinRoom(context.Background(), "class-1")
	f.adapter.LeaveRoom(context.Background(), "class-1")

	emitted := f.transport.Emitted()
	require.Len(t, emitted, 2)
	assert.Equal(t, "join_room", emitted[0].Event)
	assert.Equal(t, "class-1", emitted[0].Payload)
	assert.Equal(t, "leave_room", emitted[1].Event)
}

func TestConnect_RetriesAfterDialFailure(t *testing.T) {
	t.Parallel()

	var failures atomic.Int32
	failures.Store(1)

	f := newFixture(t, WithAuthorizer(func(Credentials) error {
		if failures.Add(-1) >= 0 {
			return errors.New("handshake rejected")
		}
		return nil
	}))
	f.login(t, "user-1")

	err := f.adapter.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, f.adapter.State())

	assert.Eventually(t, func() bool {
		return f.adapter.State() == StateConnected
	}, time.Second, 5*time.Millisecond)
}

func TestRetry_SkippedAfterLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, WithAuthorizer(func(Credentials) error {
		return errors.New("handshake rejected")
	}))
	f.login(t, "user-1")

	require.Error(t, f.adapter.Connect(context.Background()))
	f.session.Clear()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateDisconnected, f.adapter.State())
}

func TestRefresh_PicksUpRotatedToken(t *testing.T) {
	t.Parallel()

	var lastToken atomic.Value

	f := newFixture(t, WithAuthorizer(func(creds Credentials) error {
		lastToken.Store(creds.Token)
		return nil
	}))
	f.login(t, "user-1")

	require.NoError(t, f.adapter.Connect(context.Background()))
	require.Equal(t, "token-user-1", lastToken.Load())

	f.session.SetToken("rotated")
	require.NoError(t, f.adapter.Refresh(context.Background()))

	assert.Equal(t, StateConnected, f.adapter.State())
	assert.Equal(t, "rotated", lastToken.Load())
}

func TestWatch_FollowsSessionChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.adapter.Watch(ctx)

	f.login(t, "user-1")
	assert.Eventually(t, func() bool {
		return f.adapter.State() == StateConnected
	}, time.Second, 5*time.Millisecond)

	f.session.Clear()
	assert.Eventually(t, func() bool {
		return f.adapter.State() == StateDisconnected
	}, time.Second, 5*time.Millisecond)
}

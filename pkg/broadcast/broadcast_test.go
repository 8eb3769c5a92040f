package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOne[T any](t *testing.T, sub Subscriber[T]) T {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive():
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		var zero T
		return zero
	}
}

func TestMemoryBroadcaster_FanOut(t *testing.T) {
	t.Parallel()

	b := NewMemoryBroadcaster[string](4)
	defer b.Close()

	first := b.Subscribe(context.Background())
	second := b.Subscribe(context.Background())

	b.Broadcast("hello")

	assert.Equal(t, "hello", receiveOne(t, first))
	assert.Equal(t, "hello", receiveOne(t, second))
}

func TestMemoryBroadcaster_DropsWhenFull(t *testing.T) {
	t.Parallel()

	b := NewMemoryBroadcaster[int](1)
	defer b.Close()

	sub := b.Subscribe(context.Background())
	b.Broadcast(1)
	b.Broadcast(2) // dropped, buffer holds one

	assert.Equal(t, 1, receiveOne(t, sub))
	select {
	case extra := <-sub.Receive():
		t.Fatalf("expected drop, received %d", extra)
	default:
	}
}

func TestMemoryBroadcaster_SubscriberClose(t *testing.T) {
	t.Parallel()

	b := NewMemoryBroadcaster[int](1)
	defer b.Close()

	sub := b.Subscribe(context.Background())
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close()) // idempotent

	// Closed subscriber no longer receives.
	b.Broadcast(7)
	_, ok := <-sub.Receive()
	assert.False(t, ok)
}

func TestMemoryBroadcaster_ContextCancelUnsubscribes(t *testing.T) {
	t.Parallel()

	b := NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-sub.Receive():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not closed after context cancellation")
	}
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := NewMemoryBroadcaster[int](1)
	sub := b.Subscribe(context.Background())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close()) // idempotent

	_, ok := <-sub.Receive()
	assert.False(t, ok)

	// Post-close subscriptions come back already closed.
	late := b.Subscribe(context.Background())
	_, ok = <-late.Receive()
	assert.False(t, ok)
}

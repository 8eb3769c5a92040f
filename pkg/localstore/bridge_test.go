package localstore

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notifications_tutor-1", Key("tutor-1"))
}

func TestBridge_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(NewMemoryStorage())

	list := []notification.Notification{
		{
			ID:        "1757000000000-abcd1234",
			Type:      notification.TypeSuccess,
			Title:     "Welcome to VerifiedTutors!",
			Message:   "Your account is ready",
			Timestamp: time.Date(2026, 2, 3, 12, 30, 45, 123456789, time.UTC),
			Read:      false,
			Action:    &notification.Action{Label: "Find a Tutor", URL: "/tutors"},
		},
		{
			ID:        "1757000000001-ef567890",
			Type:      notification.TypeInfo,
			Title:     "Getting Started",
			Message:   "Check out the guide",
			Timestamp: time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
			Read:      true,
		},
	}

	require.NoError(t, b.Save(ctx, "student-9", list))

	got, found, err := b.Load(ctx, "student-9")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)

	// Order preserved, timestamps reconstructed as equal instants.
	for i := range list {
		assert.Equal(t, list[i].ID, got[i].ID)
		assert.Equal(t, list[i].Type, got[i].Type)
		assert.Equal(t, list[i].Title, got[i].Title)
		assert.Equal(t, list[i].Read, got[i].Read)
		assert.True(t, list[i].Timestamp.Equal(got[i].Timestamp), "timestamp %d", i)
	}
	require.NotNil(t, got[0].Action)
	assert.Equal(t, "/tutors", got[0].Action.URL)
}

func TestBridge_LoadAbsent(t *testing.T) {
	t.Parallel()

	_, found, err := NewBridge(NewMemoryStorage()).Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBridge_LoadMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong envelope version", `{"v":99,"notifications":[]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, Key("u1"), tt.raw))

			var buf bytes.Buffer
			b := NewBridge(storage, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

			got, found, err := b.Load(ctx, "u1")
			require.NoError(t, err)
			assert.False(t, found, "malformed cache must read as absent")
			assert.Nil(t, got)
			assert.NotEmpty(t, buf.String(), "malformed cache must be logged")
		})
	}
}

func TestBridge_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(NewMemoryStorage())

	require.NoError(t, b.Save(ctx, "u1", []notification.Notification{{ID: "x", Title: "T"}}))
	require.NoError(t, b.Clear(ctx, "u1"))

	_, found, err := b.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing again is a no-op.
	require.NoError(t, b.Clear(ctx, "u1"))
}

func TestBridge_IdentityIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(NewMemoryStorage())

	require.NoError(t, b.Save(ctx, "u1", []notification.Notification{{ID: "a", Title: "A"}}))
	require.NoError(t, b.Save(ctx, "u2", []notification.Notification{{ID: "b", Title: "B"}}))

	require.NoError(t, b.Clear(ctx, "u1"))

	got, found, err := b.Load(ctx, "u2")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestBridge_RequiresIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(NewMemoryStorage())

	_, _, err := b.Load(ctx, "")
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.ErrorIs(t, b.Save(ctx, "", nil), ErrNoIdentity)
	assert.ErrorIs(t, b.Clear(ctx, ""), ErrNoIdentity)
}

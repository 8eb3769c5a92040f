package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/verifiedtutors/notifykit/pkg/logger"
	"github.com/verifiedtutors/notifykit/pkg/notification"
)

const keyPrefix = "notifications_"

// envelopeVersion guards against future layout changes of the persisted form.
const envelopeVersion = 1

type envelope struct {
	Version       int                         `json:"v"`
	Notifications []notification.Notification `json:"notifications"`
}

// Bridge reads and writes the identity-scoped notification cache through a
// Storage backend.
type Bridge struct {
	storage Storage
	logger  *slog.Logger
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge creates a Bridge over the given storage.
func NewBridge(storage Storage, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Key returns the storage key owned by the given identity.
func Key(identityID string) string {
	return keyPrefix + identityID
}

// Load reads the persisted list for the identity. found is false when no
// cache exists; malformed content is logged and reported as absent so the
// caller can fall through to seeding.
func (b *Bridge) Load(ctx context.Context, identityID string) (list []notification.Notification, found bool, err error) {
	if identityID == "" {
		return nil, false, ErrNoIdentity
	}

	key := Key(identityID)
	raw, err := b.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		b.logger.LogAttrs(ctx, slog.LevelWarn, "Discarding malformed notification cache",
			logger.CacheKey(key),
			logger.Error(err),
		)
		return nil, false, nil
	}
	if env.Version != envelopeVersion {
		b.logger.LogAttrs(ctx, slog.LevelWarn, "Discarding notification cache with unknown version",
			logger.CacheKey(key),
			slog.Int("version", env.Version),
		)
		return nil, false, nil
	}

	return env.Notifications, true, nil
}

// Save writes the full list for the identity, replacing any previous value.
// Last write wins.
func (b *Bridge) Save(ctx context.Context, identityID string, list []notification.Notification) error {
	if identityID == "" {
		return ErrNoIdentity
	}

	raw, err := json.Marshal(envelope{Version: envelopeVersion, Notifications: list})
	if err != nil {
		return err
	}
	return b.storage.Set(ctx, Key(identityID), string(raw))
}

// Clear erases the identity's persisted cache. Clearing an absent cache is a
// no-op.
func (b *Bridge) Clear(ctx context.Context, identityID string) error {
	if identityID == "" {
		return ErrNoIdentity
	}
	return b.storage.Remove(ctx, Key(identityID))
}

package center

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verifiedtutors/notifykit/pkg/async"
	"github.com/verifiedtutors/notifykit/pkg/broadcast"
	"github.com/verifiedtutors/notifykit/pkg/localstore"
	"github.com/verifiedtutors/notifykit/pkg/logger"
	"github.com/verifiedtutors/notifykit/pkg/notification"
	"github.com/verifiedtutors/notifykit/pkg/remote"
	"github.com/verifiedtutors/notifykit/pkg/seed"
	"github.com/verifiedtutors/notifykit/pkg/session"
)

// fetchLimit caps the initial remote fetch.
const fetchLimit = 50

// Center owns both notification lists for the current identity. The mutex
// serializes all mutations, which is the concurrency contract the rest of
// the subsystem relies on: no two mutations interleave, and derived reads
// observe complete states only.
type Center struct {
	session *session.Session
	remote  remote.Service
	bridge  *localstore.Bridge
	seeder  Seeder
	logger  *slog.Logger
	hook    async.Reporter
	report  async.Reporter

	feedBuffer int
	feed       *broadcast.MemoryBroadcaster[[]notification.Unified]

	mu          sync.RWMutex
	local       []notification.Notification
	remoteList  []notification.Remote
	initialized bool
	identityID  string
}

// New creates a Center bound to the given session, remote service and
// persistence bridge. The default seeder is seed.Drafts.
func New(sess *session.Session, svc remote.Service, bridge *localstore.Bridge, opts ...Option) *Center {
	c := &Center{
		session:    sess,
		remote:     svc,
		bridge:     bridge,
		seeder:     seed.Drafts,
		logger:     slog.Default(),
		feedBuffer: 8,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.feed = broadcast.NewMemoryBroadcaster[[]notification.Unified](c.feedBuffer)

	// Failures of optimistic remote calls are always logged; the injected
	// hook observes them on top of that.
	c.report = func(op string, err error) {
		c.logger.LogAttrs(context.Background(), slog.LevelWarn, "Remote notification call failed",
			logger.Operation(op),
			logger.Error(err),
		)
		if c.hook != nil {
			c.hook(op, err)
		}
	}

	return c
}

// Init runs the initialization protocol for the session's current identity.
// Calling it again for the same identity is a no-op; a different identity
// re-runs the protocol from scratch.
func (c *Center) Init(ctx context.Context) error {
	ident, ok := c.session.Current()
	if !ok {
		return ErrNoIdentity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized && c.identityID == ident.ID {
		return nil
	}

	// Step 1: remote is authoritative and awaited first, so seeding can
	// never hide real content.
	var remoteList []notification.Remote
	hasRemote := false
	if res, err := c.remote.List(ctx, fetchLimit); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to fetch remote notifications",
			logger.UserID(ident.ID),
			logger.Error(err),
		)
	} else if res.Success {
		remoteList = res.Notifications
		hasRemote = len(remoteList) > 0
	}

	// Step 2: the persisted cache takes priority over seeding, so dismissed
	// or read local notifications are never replaced by samples.
	var local []notification.Notification
	cached, found, err := c.bridge.Load(ctx, ident.ID)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to load notification cache",
			logger.UserID(ident.ID),
			logger.Error(err),
		)
	}
	if found {
		local = cached
	}

	// Step 3: seed only when nothing exists anywhere.
	if !found && !hasRemote && c.seeder != nil {
		local = c.seeder(ident.Role)
	}

	c.local = local
	c.remoteList = remoteList
	c.initialized = true
	c.identityID = ident.ID
	c.publishLocked()
	return nil
}

// Reset discards all in-memory state and, when the session is still
// authenticated, re-runs Init for its current identity. This is the explicit
// entry point for login, logout and identity switches.
func (c *Center) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.local = nil
	c.remoteList = nil
	c.initialized = false
	c.identityID = ""
	c.publishLocked()
	c.mu.Unlock()

	if _, ok := c.session.Current(); !ok {
		return nil
	}
	return c.Init(ctx)
}

// Watch reacts to session changes until ctx is cancelled: any identity
// change resets the center. Token-only rotations are ignored, the store does
// not depend on the credential.
func (c *Center) Watch(ctx context.Context) {
	sub := c.session.Changes(ctx)
	go func() {
		defer sub.Close()
		for change := range sub.Receive() {
			c.mu.RLock()
			current := c.identityID
			c.mu.RUnlock()

			switch {
			case change.Identity == nil && current == "":
				// logged out and already empty
			case change.Identity != nil && change.Identity.ID == current:
				// token rotation only
			default:
				if err := c.Reset(ctx); err != nil {
					c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to reset notification center",
						logger.Error(err),
					)
				}
			}
		}
	}()
}

// Add creates a local notification from the draft. Silently suppressed
// (logged) when an entry with the same title already exists anywhere in the
// unified view.
func (c *Center) Add(ctx context.Context, draft notification.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.titleExistsLocked(draft.Title) {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Suppressed duplicate notification",
			logger.Title(draft.Title),
		)
		return
	}

	typ := draft.Type
	if !typ.Valid() {
		typ = notification.TypeInfo
	}

	n := notification.Notification{
		ID:        notification.NewID(),
		Type:      typ,
		Title:     draft.Title,
		Message:   draft.Message,
		Timestamp: time.Now(),
		Action:    draft.Action,
	}
	c.local = append([]notification.Notification{n}, c.local...)

	c.persistLocked(ctx)
	c.publishLocked()
}

// MarkRead flips the read flag of the notification with the given id.
// Remote entries are flipped optimistically and the server is told in the
// background; local entries are flipped and persisted.
func (c *Center) MarkRead(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.remoteList {
		if c.remoteList[i].ID == id {
			c.remoteList[i].Read = true
			c.publishLocked()
			async.Fire(ctx, "mark_read", c.report, func(ctx context.Context) error {
				return c.remote.MarkRead(ctx, id)
			})
			return
		}
	}

	for i := range c.local {
		if c.local[i].ID == id {
			c.local[i].Read = true
			c.persistLocked(ctx)
			c.publishLocked()
			return
		}
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "MarkRead for unknown notification",
		logger.NotificationID(id),
	)
}

// MarkAllRead flips every entry in both lists, then tells the server once in
// the background.
func (c *Center) MarkAllRead(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.local {
		c.local[i].Read = true
	}
	for i := range c.remoteList {
		c.remoteList[i].Read = true
	}

	c.persistLocked(ctx)
	c.publishLocked()

	async.Fire(ctx, "mark_all_read", c.report, func(ctx context.Context) error {
		return c.remote.MarkAllRead(ctx)
	})
}

// Remove deletes the notification with the given id from whichever list
// holds it. Remote deletions are optimistic.
func (c *Center) Remove(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.remoteList {
		if c.remoteList[i].ID == id {
			c.remoteList = append(c.remoteList[:i], c.remoteList[i+1:]...)
			c.publishLocked()
			async.Fire(ctx, "delete", c.report, func(ctx context.Context) error {
				return c.remote.Delete(ctx, id)
			})
			return
		}
	}

	for i := range c.local {
		if c.local[i].ID == id {
			c.local = append(c.local[:i], c.local[i+1:]...)
			c.persistLocked(ctx)
			c.publishLocked()
			return
		}
	}
}

// ClearAll empties both in-memory lists and erases the identity's persisted
// cache. Idempotent; storage failures are logged only.
func (c *Center) ClearAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.local = nil
	c.remoteList = nil

	if c.identityID != "" {
		if err := c.bridge.Clear(ctx, c.identityID); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to clear notification cache",
				logger.UserID(c.identityID),
				logger.Error(err),
			)
		}
	}
	c.publishLocked()
}

// ClearCache erases the persisted cache for the current identity without
// touching in-memory state. Diagnostic operation.
func (c *Center) ClearCache(ctx context.Context) error {
	c.mu.RLock()
	identityID := c.identityID
	c.mu.RUnlock()

	if identityID == "" {
		return ErrNoIdentity
	}
	return c.bridge.Clear(ctx, identityID)
}

// All returns the unified view: both lists projected into one shape, sorted
// newest first. Recomputed on every call, never stored.
func (c *Center) All() []notification.Unified {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unifiedLocked()
}

// UnreadCount reports the number of unread entries in the unified view.
// Always derived, never tracked separately.
func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, n := range c.local {
		if !n.Read {
			count++
		}
	}
	for _, r := range c.remoteList {
		if !r.Read {
			count++
		}
	}
	return count
}

// Initialized reports whether the initialization protocol has completed for
// the current identity.
func (c *Center) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Subscribe delivers a fresh unified snapshot after every state change,
// until ctx is cancelled. Slow consumers miss intermediate snapshots rather
// than blocking mutations.
func (c *Center) Subscribe(ctx context.Context) broadcast.Subscriber[[]notification.Unified] {
	return c.feed.Subscribe(ctx)
}

// Close tears down the change feed.
func (c *Center) Close() error {
	return c.feed.Close()
}

func (c *Center) unifiedLocked() []notification.Unified {
	out := make([]notification.Unified, 0, len(c.local)+len(c.remoteList))
	for _, n := range c.local {
		out = append(out, notification.FromLocal(n))
	}
	for _, r := range c.remoteList {
		out = append(out, notification.FromRemote(r))
	}
	notification.SortUnified(out)
	return out
}

func (c *Center) titleExistsLocked(title string) bool {
	for _, n := range c.local {
		if n.Title == title {
			return true
		}
	}
	for _, r := range c.remoteList {
		if r.Title == title {
			return true
		}
	}
	return false
}

// persistLocked writes the full local list through to the bridge. Only
// active once initialization has completed; failures are logged and the
// in-memory state stays authoritative until the next write.
func (c *Center) persistLocked(ctx context.Context) {
	if !c.initialized || c.identityID == "" {
		return
	}
	if err := c.bridge.Save(ctx, c.identityID, c.local); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to persist local notifications",
			logger.UserID(c.identityID),
			logger.Error(err),
		)
	}
}

func (c *Center) publishLocked() {
	c.feed.Broadcast(c.unifiedLocked())
}

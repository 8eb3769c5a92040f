package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verifiedtutors/notifykit/pkg/center"
	"github.com/verifiedtutors/notifykit/pkg/logger"
	"github.com/verifiedtutors/notifykit/pkg/session"
)

// State is the adapter's connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Config holds the reconnect policy.
type Config struct {
	MaxReconnectAttempts int           `env:"REALTIME_MAX_RECONNECT_ATTEMPTS" envDefault:"5"`
	ReconnectDelay       time.Duration `env:"REALTIME_RECONNECT_DELAY" envDefault:"3s"`
	DialTimeout          time.Duration `env:"REALTIME_DIAL_TIMEOUT" envDefault:"10s"`
}

// Adapter owns the single live connection and its lifecycle.
type Adapter struct {
	session   *session.Session
	center    *center.Center
	transport Transport
	cfg       Config
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	conn     Conn
	stopPump context.CancelFunc
	retry    *time.Timer
	attempts int
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an adapter feeding events into the given center.
func NewAdapter(sess *session.Session, c *center.Center, transport Transport, cfg Config, opts ...AdapterOption) *Adapter {
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = 5
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}

	a := &Adapter{
		session:   sess,
		center:    c,
		transport: transport,
		cfg:       cfg,
		logger:    slog.Default(),
		state:     StateDisconnected,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current connection state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Connect opens the connection for the session's current identity. A no-op
// when unauthenticated, when no token is present, or when a connection is
// already up or being established. A failed dial schedules one delayed
// retry, guarded against identity changes in the meantime.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateDisconnected {
		a.mu.Unlock()
		return nil
	}

	ident, ok := a.session.Current()
	token := a.session.Token()
	if !ok || token == "" {
		a.mu.Unlock()
		a.logger.LogAttrs(ctx, slog.LevelDebug, "Skipping realtime connect without credentials")
		return nil
	}

	a.cancelRetryLocked()
	a.state = StateConnecting
	a.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, a.cfg.DialTimeout)
	conn, err := a.transport.Dial(dialCtx, Credentials{IdentityID: ident.ID, Token: token})
	cancel()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateConnecting {
		// Disconnect raced the dial; drop the fresh connection.
		if conn != nil {
			_ = conn.Close()
		}
		return nil
	}

	if err != nil {
		a.state = StateDisconnected
		a.attempts++
		a.logger.LogAttrs(ctx, slog.LevelWarn, "Realtime connection failed",
			logger.UserID(ident.ID),
			logger.Attempt(a.attempts),
			logger.Error(err),
		)
		a.scheduleRetryLocked()
		return err
	}

	a.conn = conn
	a.state = StateConnected
	a.attempts = 0

	pumpCtx, stop := context.WithCancel(context.Background())
	a.stopPump = stop
	go a.pump(pumpCtx, conn)

	a.logger.LogAttrs(ctx, slog.LevelInfo, "Realtime connection established",
		logger.UserID(ident.ID),
	)
	return nil
}

// Disconnect tears the connection down, cancels any pending retry and stops
// inbound delivery immediately. Idempotent.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	a.cancelRetryLocked()
	a.attempts = 0
	if a.stopPump != nil {
		a.stopPump()
		a.stopPump = nil
	}
	conn := a.conn
	a.conn = nil
	a.state = StateDisconnected
	a.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Refresh forces a disconnect-then-reconnect so a rotated token takes effect.
func (a *Adapter) Refresh(ctx context.Context) error {
	a.Disconnect()
	return a.Connect(ctx)
}

// Watch drives the connection from session changes until ctx is cancelled:
// logout disconnects, login and token rotation reconnect with the fresh
// credential.
func (a *Adapter) Watch(ctx context.Context) {
	sub := a.session.Changes(ctx)
	go func() {
		defer sub.Close()
		for change := range sub.Receive() {
			if change.Identity == nil {
				a.Disconnect()
				continue
			}
			_ = a.Refresh(ctx) // failures are logged and retried by the adapter
		}
	}()
}

// JoinRoom subscribes the connection to a server-side room. Dropped with a
// warning when not connected.
func (a *Adapter) JoinRoom(ctx context.Context, room string) {
	a.emit(ctx, eventJoinRoom, room)
}

// LeaveRoom unsubscribes from a room. Dropped with a warning when not connected.
func (a *Adapter) LeaveRoom(ctx context.Context, room string) {
	a.emit(ctx, eventLeaveRoom, room)
}

// Send emits an arbitrary named event. Dropped with a warning when not
// connected; there is no queuing or replay, this is not a reliable channel.
func (a *Adapter) Send(ctx context.Context, event string, payload any) {
	a.emit(ctx, event, payload)
}

func (a *Adapter) emit(ctx context.Context, event string, payload any) {
	a.mu.Lock()
	conn := a.conn
	connected := a.state == StateConnected
	a.mu.Unlock()

	if !connected || conn == nil {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "Dropping outbound realtime message, not connected",
			logger.EventType(event),
		)
		return
	}
	if err := conn.Emit(ctx, event, payload); err != nil {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to emit realtime message",
			logger.EventType(event),
			logger.Error(err),
		)
	}
}

// pump forwards inbound events into the center until the connection drops
// or delivery is stopped. A closed event channel means the transport gave
// up; the adapter then supervises one delayed reconnect.
func (a *Adapter) pump(ctx context.Context, conn Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-conn.Events():
			if !ok {
				a.mu.Lock()
				if a.conn == conn {
					a.conn = nil
					a.stopPump = nil
					a.state = StateDisconnected
					a.attempts++
					a.scheduleRetryLocked()
				}
				a.mu.Unlock()
				return
			}
			a.handleEvent(ctx, ev)
		}
	}
}

func (a *Adapter) handleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventNewNotification:
		if draft, ok := notificationDraft(ev.Data, "Notification"); ok {
			a.center.Add(ctx, draft)
		}
	case EventBookingUpdate:
		if draft, ok := bookingDraft(ev.Data); ok {
			a.center.Add(ctx, draft)
		}
	case EventSystemMessage:
		if draft, ok := notificationDraft(ev.Data, "System Message"); ok {
			a.center.Add(ctx, draft)
		}
	case EventBroadcast:
		if draft, ok := notificationDraft(ev.Data, "Announcement"); ok {
			a.center.Add(ctx, draft)
		}
	case EventTyping, EventStopTyping:
		// Presence events are accepted but produce no notification.
	default:
		a.logger.LogAttrs(ctx, slog.LevelDebug, "Ignoring unknown realtime event",
			logger.EventType(ev.Type),
		)
	}
}

// scheduleRetryLocked arms the supervised retry timer. The timer re-checks
// session and connection state when it fires so a stale timer can never
// resurrect a connection for a logged-out identity.
func (a *Adapter) scheduleRetryLocked() {
	if a.attempts > a.cfg.MaxReconnectAttempts {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "Giving up on realtime reconnection",
			logger.Attempt(a.attempts-1),
		)
		return
	}

	a.cancelRetryLocked()
	a.retry = time.AfterFunc(a.cfg.ReconnectDelay, func() {
		if _, ok := a.session.Current(); !ok || a.session.Token() == "" {
			return
		}
		a.mu.Lock()
		idle := a.state == StateDisconnected
		a.mu.Unlock()
		if !idle {
			return
		}
		_ = a.Connect(context.Background())
	})
}

func (a *Adapter) cancelRetryLocked() {
	if a.retry != nil {
		a.retry.Stop()
		a.retry = nil
	}
}

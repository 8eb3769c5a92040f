package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/verifiedtutors/notifykit/pkg/logger"
)

const (
	userChannelPrefix = "realtime:user:"
	outboundChannel   = "realtime:outbound"
)

// envelope is the wire format for events published through Redis.
type envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// RedisTransport is a Transport backed by Redis pub/sub. Each identity has
// its own inbound channel the backend publishes to; outbound client
// messages go to a shared channel with the sender's identity attached so
// server-side consumers can route them.
type RedisTransport struct {
	client *redis.Client
	logger *slog.Logger
}

// RedisTransportOption configures a RedisTransport.
type RedisTransportOption func(*RedisTransport)

// WithRedisLogger sets the transport logger.
func WithRedisLogger(l *slog.Logger) RedisTransportOption {
	return func(t *RedisTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewRedisTransport wraps an existing Redis client.
func NewRedisTransport(client *redis.Client, opts ...RedisTransportOption) *RedisTransport {
	t := &RedisTransport{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// UserChannel returns the pub/sub channel name for an identity.
func UserChannel(identityID string) string {
	return userChannelPrefix + identityID
}

// PublishEvent pushes an event to every live connection for the identity.
// Intended for server-side publishers and tests.
func (t *RedisTransport) PublishEvent(ctx context.Context, identityID string, ev Event) error {
	payload, err := json.Marshal(envelope{Event: ev.Type, Data: ev.Data})
	if err != nil {
		return err
	}
	return t.client.Publish(ctx, UserChannel(identityID), payload).Err()
}

// Dial implements Transport. The subscription is confirmed before the
// connection is returned so no published event can slip past the handshake.
func (t *RedisTransport) Dial(ctx context.Context, creds Credentials) (Conn, error) {
	if creds.IdentityID == "" || creds.Token == "" {
		return nil, ErrUnauthorized
	}

	pubsub := t.client.Subscribe(ctx, UserChannel(creds.IdentityID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	conn := &redisConn{
		transport:  t,
		identityID: creds.IdentityID,
		pubsub:     pubsub,
		events:     make(chan Event, 16),
	}
	go conn.consume()
	return conn, nil
}

type redisConn struct {
	transport  *RedisTransport
	identityID string
	pubsub     *redis.PubSub
	events     chan Event
}

// consume decodes messages off the subscription until it is closed.
// Undecodable payloads are logged and skipped.
func (c *redisConn) consume() {
	defer close(c.events)
	for msg := range c.pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			c.transport.logger.LogAttrs(context.Background(), slog.LevelWarn, "Dropping malformed realtime payload",
				logger.UserID(c.identityID),
				logger.Error(err),
			)
			continue
		}
		c.events <- Event{Type: env.Event, Data: env.Data}
	}
}

func (c *redisConn) Events() <-chan Event {
	return c.events
}

func (c *redisConn) Emit(ctx context.Context, event string, payload any) error {
	data := map[string]any{"from": c.identityID}
	if payload != nil {
		data["payload"] = payload
	}
	raw, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	return c.transport.client.Publish(ctx, outboundChannel, raw).Err()
}

func (c *redisConn) Close() error {
	return c.pubsub.Close()
}

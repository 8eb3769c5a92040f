package notification

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type represents the notification type/severity.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// Action represents a call-to-action attached to a notification.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is a client-only notification. It never leaves the client:
// its lifecycle ends when it is removed or when the owning identity's
// persisted cache is cleared.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Action    *Action   `json:"action,omitempty"`
}

// Remote mirrors a server-persisted notification record. The server owns the
// record; the client only keeps an optimistically mutated in-memory copy.
type Remote struct {
	ID        string    `json:"_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
	Action    *Action   `json:"action,omitempty"`
}

// Draft is the caller-supplied part of a new local notification.
// ID, timestamp and read state are assigned by the notification center.
type Draft struct {
	Type    Type    `json:"type"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Action  *Action `json:"action,omitempty"`
}

// NewID returns a collision-resistant local notification id combining a
// millisecond time component with a random suffix.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}

package notification

import (
	"sort"
	"time"
)

// Unified is the read-only projection consumed by UI: local and remote
// notifications mapped into one shape tagged with IsDatabase. It is derived
// on every read and never stored, so there is no second source of truth to
// drift.
type Unified struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
	Action     *Action   `json:"action,omitempty"`
	IsDatabase bool      `json:"isDatabase"`
}

// FromLocal projects a client-only notification into the unified shape.
func FromLocal(n Notification) Unified {
	return Unified{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp,
		Read:      n.Read,
		Action:    n.Action,
	}
}

// FromRemote projects a server-persisted record into the unified shape.
func FromRemote(r Remote) Unified {
	return Unified{
		ID:         r.ID,
		Type:       r.Type,
		Title:      r.Title,
		Message:    r.Message,
		Timestamp:  r.CreatedAt,
		Read:       r.Read,
		Action:     r.Action,
		IsDatabase: true,
	}
}

// SortUnified orders notifications newest first. The sort is stable so
// entries sharing a timestamp keep their insertion order.
func SortUnified(list []Unified) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
}

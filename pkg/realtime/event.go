package realtime

import (
	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// Inbound event discriminators.
const (
	EventNewNotification = "new_notification"
	EventBookingUpdate   = "booking_update"
	EventSystemMessage   = "system_message"
	EventBroadcast       = "broadcast"
	EventTyping          = "typing"
	EventStopTyping      = "stop_typing"
)

// Outbound event names.
const (
	eventJoinRoom  = "join_room"
	eventLeaveRoom = "leave_room"
)

// Event is a typed realtime message: a discriminator plus a free-form
// payload, the shape the wire protocol uses in both directions.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

func child(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func actionFrom(m map[string]any) *notification.Action {
	a := child(m, "action")
	if a == nil {
		return nil
	}
	return &notification.Action{Label: str(a, "label"), URL: str(a, "url")}
}

// notificationDraft maps a new_notification payload, falling back to default
// type and title when fields are absent. A nil payload is dropped.
func notificationDraft(data map[string]any, defaultTitle string) (notification.Draft, bool) {
	if data == nil {
		return notification.Draft{}, false
	}

	typ := notification.Type(str(data, "type"))
	if !typ.Valid() {
		typ = notification.TypeInfo
	}
	title := str(data, "title")
	if title == "" {
		title = defaultTitle
	}

	return notification.Draft{
		Type:    typ,
		Title:   title,
		Message: str(data, "message"),
		Action:  actionFrom(data),
	}, true
}

// bookingDraft maps a booking lifecycle tag to a canned title/message pair
// referencing the booking's subject. Unknown tags and payloads without a
// booking are dropped.
func bookingDraft(data map[string]any) (notification.Draft, bool) {
	booking := child(data, "booking")
	if booking == nil {
		return notification.Draft{}, false
	}

	var (
		title string
		verb  string
		typ   notification.Type
	)
	switch str(data, "updateType") {
	case "created":
		title, verb, typ = "Booking Created", "created", notification.TypeSuccess
	case "updated":
		title, verb, typ = "Booking Updated", "updated", notification.TypeInfo
	case "cancelled":
		title, verb, typ = "Booking Cancelled", "cancelled", notification.TypeWarning
	case "confirmed":
		title, verb, typ = "Booking Confirmed", "confirmed", notification.TypeSuccess
	default:
		return notification.Draft{}, false
	}

	subject := str(booking, "subject")
	if subject == "" {
		subject = "your session"
	}

	draft := notification.Draft{
		Type:    typ,
		Title:   title,
		Message: "Your booking for " + subject + " has been " + verb + ".",
	}

	id := str(booking, "_id")
	if id == "" {
		id = str(booking, "id")
	}
	if id != "" {
		draft.Action = &notification.Action{Label: "View Booking", URL: "/bookings/" + id}
	}

	return draft, true
}

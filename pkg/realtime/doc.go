// Package realtime owns the single live connection that pushes notification
// events into the center. The Adapter authenticates the connection with the
// session's current token, translates typed inbound events into center adds,
// and supervises reconnection: the transport handles its own retries, while
// the adapter schedules one cancellable delayed retry after a failed dial.
//
// Outbound operations (rooms, ad-hoc messages) are best effort only:
// anything sent while disconnected is dropped with a warning, never queued.
//
// Two Transport implementations are provided: an in-process one for tests
// and development, and a Redis pub/sub one.
package realtime

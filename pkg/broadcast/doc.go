// Package broadcast implements a minimal in-process fan-out primitive used
// for the notification change feed, session change events and the in-memory
// realtime transport. Delivery is non-blocking: a subscriber that cannot
// keep up has messages dropped rather than stalling the publisher.
package broadcast

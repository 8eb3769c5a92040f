// Package localstore persists the client-only notification list to durable
// key-value storage, keyed per authenticated identity. The Storage interface
// abstracts the backing store (in-memory for tests, Redis for real
// deployments); Bridge adds the notification-specific key scheme and the
// versioned JSON envelope.
//
// Malformed persisted content is never fatal: it is logged and treated as an
// absent cache so the caller falls through to its seeding logic.
package localstore

// Package async provides small helpers for background work: futures for
// results the caller eventually needs, and Fire for optimistic
// fire-and-forget tasks whose failures are routed to a reporting hook
// instead of the caller.
package async

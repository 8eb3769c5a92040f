// Package center implements the notification reconciliation engine: it
// merges server-persisted notifications with client-only ones into a single
// ordered, title-deduplicated view, routes mutations to the correct backing
// source, and keeps the client-only list persisted per identity.
//
// Remote mutations are optimistic: in-memory state changes first and the
// remote call runs fire-and-forget. Failures are logged and handed to an
// injectable reporter; they never roll back local state and never block the
// caller.
//
// # Initialization
//
// Init runs once per identity, in a fixed order: the remote fetch is awaited
// first so onboarding seeds can never hide real content, then the persisted
// cache is consulted, and only when both are empty is the role-specific seed
// set materialized. Reset clears state and re-runs Init for the session's
// current identity, which is how login/logout is handled.
package center

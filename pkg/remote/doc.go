// Package remote defines the server-side notification service contract the
// notification center depends on, plus several implementations:
//
//   - MemoryService: per-process store for tests and development
//   - Client: HTTP JSON client for the hosted VerifiedTutors API
//   - Handler: chi router exposing any Service over the same HTTP contract
//   - PGService: Postgres-backed store (pgx), with an embedded goose migration
//   - MongoService: MongoDB-backed store
//
// Every implementation is scoped to one authenticated identity: the center
// never passes user ids, the binding happens at construction (token for
// Client, user id for the database stores).
//
// The center treats all Service failures as logged and non-fatal; no
// implementation may panic into the caller.
package remote

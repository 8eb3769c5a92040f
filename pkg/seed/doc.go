// Package seed produces the onboarding notifications shown to first-time
// users. Content lives in an embedded YAML template keyed by role; ids are
// fixed literals so accidental re-seeding collides instead of duplicating.
//
// Seeding is gated by the notification center's initialization protocol:
// templates are only materialized when neither a persisted cache nor remote
// notifications exist for the identity.
package seed

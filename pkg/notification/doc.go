// Package notification defines the domain model shared by the notification
// center, the persistence bridge and the realtime layer: local (client-only)
// notifications, mirrors of server-persisted records, and the unified
// projection rendered by UI consumers.
package notification

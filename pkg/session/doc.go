// Package session tracks the currently authenticated identity and its
// credential token. It is the client-side source of truth the notification
// center and the realtime adapter react to: login, logout and token rotation
// are published on a change feed so dependent components can reset or
// reconnect deterministically.
package session

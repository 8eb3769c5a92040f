// Package logger provides a small slog factory plus typed attribute helpers
// shared across the notification subsystem. Every component logs through
// *slog.Logger so callers can inject their own handler; New is a convenience
// for the common text/json setups.
package logger

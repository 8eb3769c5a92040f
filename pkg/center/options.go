package center

import (
	"log/slog"

	"github.com/verifiedtutors/notifykit/pkg/async"
	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// Seeder produces the onboarding notifications for a role. See pkg/seed for
// the default implementation.
type Seeder func(role string) []notification.Notification

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the logger for the center.
func WithLogger(l *slog.Logger) Option {
	return func(c *Center) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSeeder replaces the default onboarding seeder. A nil seeder disables
// seeding entirely.
func WithSeeder(s Seeder) Option {
	return func(c *Center) { c.seeder = s }
}

// WithReporter installs a hook receiving failures of fire-and-forget remote
// calls, in addition to the warning log. Useful for error trackers and for
// asserting on failures in tests.
func WithReporter(r async.Reporter) Option {
	return func(c *Center) { c.hook = r }
}

// WithFeedBuffer sets the change-feed buffer per subscriber.
func WithFeedBuffer(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.feedBuffer = n
		}
	}
}

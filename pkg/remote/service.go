package remote

import (
	"context"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// ListResult is the response shape of the list operation. Success mirrors
// the wire contract: a false value with no error means the server answered
// but declined the request.
type ListResult struct {
	Success       bool                  `json:"success"`
	Notifications []notification.Remote `json:"notifications"`
}

// Service is the remote notification service contract. Implementations are
// scoped to a single authenticated identity.
type Service interface {
	// List returns up to limit notifications, newest first. limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) (ListResult, error)

	// MarkRead marks the given notifications as read. Unknown ids are ignored.
	MarkRead(ctx context.Context, ids ...string) error

	// MarkAllRead marks every notification as read.
	MarkAllRead(ctx context.Context) error

	// Delete removes a notification. Returns ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}

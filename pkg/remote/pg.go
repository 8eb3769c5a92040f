package remote

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// PGService is a Postgres-backed Service for deployments that embed the
// notification service in-process instead of calling the hosted API.
// Scoped to a single user at construction.
type PGService struct {
	pool   *pgxpool.Pool
	userID string
}

// NewPGService creates a Postgres-backed service for the given user.
func NewPGService(pool *pgxpool.Pool, userID string) *PGService {
	return &PGService{pool: pool, userID: userID}
}

func (s *PGService) List(ctx context.Context, limit int) (ListResult, error) {
	query := `SELECT id, type, title, message, action_label, action_url, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{s.userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	notifications := []notification.Remote{}
	for rows.Next() {
		var (
			r           notification.Remote
			actionLabel *string
			actionURL   *string
			createdAt   time.Time
		)
		if err := rows.Scan(&r.ID, &r.Type, &r.Title, &r.Message, &actionLabel, &actionURL, &r.Read, &createdAt); err != nil {
			return ListResult{}, err
		}
		r.CreatedAt = createdAt
		if actionLabel != nil && actionURL != nil {
			r.Action = &notification.Action{Label: *actionLabel, URL: *actionURL}
		}
		notifications = append(notifications, r)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	return ListResult{Success: true, Notifications: notifications}, nil
}

func (s *PGService) MarkRead(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND id = ANY($2)`,
		s.userID, ids,
	)
	return err
}

func (s *PGService) MarkAllRead(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1`,
		s.userID,
	)
	return err
}

func (s *PGService) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND id = $2`,
		s.userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts a notification record. Not part of the client-facing
// Service contract; used by server-side producers.
func (s *PGService) Create(ctx context.Context, r notification.Remote) error {
	var actionLabel, actionURL *string
	if r.Action != nil {
		actionLabel, actionURL = &r.Action.Label, &r.Action.URL
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, action_label, action_url, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, s.userID, r.Type, r.Title, r.Message, actionLabel, actionURL, r.Read, createdAt,
	)
	return err
}

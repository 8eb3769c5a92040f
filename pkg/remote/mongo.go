package remote

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// MongoService is a MongoDB-backed Service, scoped to a single user at
// construction.
type MongoService struct {
	coll   *mongo.Collection
	userID string
}

// NewMongoService creates a service over the given collection for one user.
func NewMongoService(coll *mongo.Collection, userID string) *MongoService {
	return &MongoService{coll: coll, userID: userID}
}

type mongoRecord struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Message     string    `bson:"message"`
	ActionLabel *string   `bson:"action_label,omitempty"`
	ActionURL   *string   `bson:"action_url,omitempty"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (s *MongoService) List(ctx context.Context, limit int) (ListResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.M{"user_id": s.userID}, opts)
	if err != nil {
		return ListResult{}, err
	}
	defer cursor.Close(ctx)

	notifications := []notification.Remote{}
	for cursor.Next(ctx) {
		var rec mongoRecord
		if err := cursor.Decode(&rec); err != nil {
			return ListResult{}, err
		}
		r := notification.Remote{
			ID:        rec.ID,
			Type:      notification.Type(rec.Type),
			Title:     rec.Title,
			Message:   rec.Message,
			Read:      rec.Read,
			CreatedAt: rec.CreatedAt,
		}
		if rec.ActionLabel != nil && rec.ActionURL != nil {
			r.Action = &notification.Action{Label: *rec.ActionLabel, URL: *rec.ActionURL}
		}
		notifications = append(notifications, r)
	}
	if err := cursor.Err(); err != nil {
		return ListResult{}, err
	}

	return ListResult{Success: true, Notifications: notifications}, nil
}

func (s *MongoService) MarkRead(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": s.userID, "_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

func (s *MongoService) MarkAllRead(ctx context.Context) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": s.userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

func (s *MongoService) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"user_id": s.userID, "_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts a notification record. Not part of the client-facing
// Service contract; used by server-side producers.
func (s *MongoService) Create(ctx context.Context, r notification.Remote) error {
	rec := mongoRecord{
		ID:        r.ID,
		UserID:    s.userID,
		Type:      string(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if r.Action != nil {
		rec.ActionLabel, rec.ActionURL = &r.Action.Label, &r.Action.URL
	}

	_, err := s.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(errors.New("remote: duplicate notification id"), err)
	}
	return err
}

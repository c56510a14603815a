// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/cropconnect/coophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages per-user notification records. Every read and write goes
// through the explicit codec in codec.go rather than struct tags, so the
// stored schema and its fallback rules live in one place.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// EnsureIndexes creates the indexes the inbox queries depend on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Inbox listing, newest first
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		// Unread badge count
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_read", Value: 1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create validates and inserts a notification, returning it with its
// generated ID and timestamp filled in. The caller's context decides the
// session, so a Create inside a transaction callback joins that
// transaction.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	if err := n.Validate(); err != nil {
		return models.Notification{}, err
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	doc := encodeNotification(n)
	doc["_id"] = n.ID

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListByRecipient returns userID's notifications newest first. A non-nil
// before narrows the page to records created strictly earlier, which is how
// the inbox walks backward through history. limit <= 0 selects a page of 50.
func (s *Store) ListByRecipient(ctx context.Context, userID primitive.ObjectID, limit int64, before *time.Time) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"user_id": userID}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": *before}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, _ := doc["_id"].(primitive.ObjectID)
		n, err := decodeNotification(id, doc)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetByID fetches one notification scoped to its recipient, so one user
// cannot read another's records by guessing IDs.
func (s *Store) GetByID(ctx context.Context, userID, id primitive.ObjectID) (models.Notification, error) {
	var doc bson.M
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&doc)
	if err != nil {
		return models.Notification{}, err
	}
	return decodeNotification(id, doc)
}

// CountUnread returns the unread badge count for userID.
func (s *Store) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

// MarkRead flags one of userID's notifications as read. Returns
// mongo.ErrNoDocuments when the notification does not exist or belongs to
// someone else.
func (s *Store) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead flags every unread notification for userID and reports how
// many changed.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one of userID's notifications. Returns
// mongo.ErrNoDocuments when nothing matched.
func (s *Store) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteReadOlderThan removes read notifications created before cutoff.
// The retention sweep calls this on a schedule; unread records are never
// swept.
func (s *Store) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"is_read":    true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

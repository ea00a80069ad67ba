// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps how many notifications a single fetch returns.
const ListLimit = 50

// dedupWindow suppresses repeat notifications from the same actor for
// the same event within this span (rapid like/unlike toggling would
// otherwise spam the recipient).
const dedupWindow = 5 * time.Second

var ErrNotificationNotFound = apierr.New(apierr.NotFound, "notification not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Create inserts a notification unless it is a self-notification or a
// duplicate within the dedup window. Returns the created notification
// and whether one was actually written.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, bool, error) {
	if n.UserID == n.FromID {
		return models.Notification{}, false, nil
	}

	dupFilter := bson.M{
		"user_id":    n.UserID,
		"from_id":    n.FromID,
		"type":       n.Type,
		"created_at": bson.M{"$gte": time.Now().UTC().Add(-dedupWindow)},
	}
	if n.FeedID != nil {
		dupFilter["feed_id"] = *n.FeedID
	}
	count, err := s.c.CountDocuments(ctx, dupFilter, options.Count().SetLimit(1))
	if err != nil {
		return models.Notification{}, false, apierr.Wrap(apierr.Internal, "dedup check", err)
	}
	if count > 0 {
		return models.Notification{}, false, nil
	}

	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, false, apierr.Wrap(apierr.Internal, "insert notification", err)
	}
	return n, true, nil
}

// ListByUser returns the recipient's newest notifications, capped at
// ListLimit.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(ListLimit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "find notifications", err)
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apierr.Wrap(apierr.Internal, "decode notifications", err)
	}
	return out, nil
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *Store) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, apierr.Wrap(apierr.Internal, "count unread", err)
	}
	return n, nil
}

// MarkRead marks one of the recipient's notifications read. The user_id
// filter stops one user marking another's notifications.
func (s *Store) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return apierr.Wrap(apierr.Internal, "mark read", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the recipient read
// and returns how many were updated.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, apierr.Wrap(apierr.Internal, "mark all read", err)
	}
	return res.ModifiedCount, nil
}

// DeleteByFeed removes notifications that point at a deleted feed.
func (s *Store) DeleteByFeed(ctx context.Context, feedID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"feed_id": feedID})
	if err != nil {
		return 0, apierr.Wrap(apierr.Internal, "delete notifications", err)
	}
	return res.DeletedCount, nil
}

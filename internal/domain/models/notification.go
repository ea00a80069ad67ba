// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyNewFeed       = "new_feed"
	NotifyFeedLiked     = "feed_liked"
	NotifyFeedCommented = "feed_commented"
	NotifyFeedReposted  = "feed_reposted"
)

// Notification records an event directed at a single recipient. The store
// suppresses duplicates (same recipient/actor/type/feed) created within a
// short window, and never records self-notifications.
type Notification struct {
	ID      primitive.ObjectID  `bson:"_id" json:"id"`
	UserID  primitive.ObjectID  `bson:"user_id" json:"userId"` // recipient
	FromID  primitive.ObjectID  `bson:"from_id" json:"fromId"` // actor
	Type    string              `bson:"type" json:"type"`
	FeedID  *primitive.ObjectID `bson:"feed_id,omitempty" json:"feedId,omitempty"`
	Text    string              `bson:"text,omitempty" json:"text,omitempty"`
	IsRead  bool                `bson:"is_read" json:"isRead"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// internal/domain/models/feed.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed kinds. OriginalFeedID is set if and only if Kind is reshare.
const (
	FeedKindOriginal = "original"
	FeedKindReshare  = "reshare"
)

// DefaultReshareCaption returns the system-generated caption written to a
// reshare when the user supplies none. The projector suppresses exactly
// this text at display time, so the template must not change without
// migrating stored captions.
func DefaultReshareCaption(originalFeedID string) string {
	return fmt.Sprintf("Shared post from feed %s. Check it out!", originalFeedID)
}

// Comment is embedded in its owning Feed. Comments have no independent
// lifecycle: deleting the feed deletes them, and they are never edited
// in place.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"authorId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Feed is the post aggregate root. The whole document (including the
// like set and embedded comments) is the unit of atomicity; every store
// mutation is a single-document update.
type Feed struct {
	ID       primitive.ObjectID   `bson:"_id" json:"id"`
	AuthorID primitive.ObjectID   `bson:"author_id" json:"authorId"`
	Text     string               `bson:"text,omitempty" json:"text,omitempty"`
	Image    string               `bson:"image,omitempty" json:"image,omitempty"`
	Likes    []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments []Comment            `bson:"comments" json:"comments"`

	Kind           string              `bson:"kind" json:"kind"` // original | reshare
	OriginalFeedID *primitive.ObjectID `bson:"original_feed_id,omitempty" json:"originalFeedId,omitempty"`

	IsPinned bool       `bson:"is_pinned" json:"isPinned"`
	PinnedAt *time.Time `bson:"pinned_at,omitempty" json:"pinnedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// LikedBy reports whether userID is in the like set.
func (f Feed) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range f.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id.
func (f Feed) CommentByID(id primitive.ObjectID) (Comment, bool) {
	for _, c := range f.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

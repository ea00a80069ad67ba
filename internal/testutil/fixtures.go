package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$test.hash.not.a.real.credential.xxxxxxxxxxxxxxxxxxxxx",
		Role:         role,
		Church:       models.ChurchStMarys,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateMember creates a test user with the active role.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleActive)
}

// CreateAdmin creates a test user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateFeed creates an original post by the given author.
func (f *Fixtures) CreateFeed(ctx context.Context, authorID primitive.ObjectID, text string) models.Feed {
	f.t.Helper()

	now := time.Now().UTC()
	feed := models.Feed{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      text,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		Kind:      models.FeedKindOriginal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("feeds").InsertOne(ctx, feed); err != nil {
		f.t.Fatalf("failed to create test feed: %v", err)
	}
	return feed
}

// CreateFeedAt creates an original post with an explicit creation time,
// for tests that depend on ordering.
func (f *Fixtures) CreateFeedAt(ctx context.Context, authorID primitive.ObjectID, text string, createdAt time.Time) models.Feed {
	f.t.Helper()

	feed := models.Feed{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      text,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		Kind:      models.FeedKindOriginal,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if _, err := f.db.Collection("feeds").InsertOne(ctx, feed); err != nil {
		f.t.Fatalf("failed to create test feed: %v", err)
	}
	return feed
}

// CreateReshare creates a reshare of the given original with the given caption.
func (f *Fixtures) CreateReshare(ctx context.Context, authorID, originalID primitive.ObjectID, caption string) models.Feed {
	f.t.Helper()

	now := time.Now().UTC()
	feed := models.Feed{
		ID:             primitive.NewObjectID(),
		AuthorID:       authorID,
		Text:           caption,
		Likes:          []primitive.ObjectID{},
		Comments:       []models.Comment{},
		Kind:           models.FeedKindReshare,
		OriginalFeedID: &originalID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("feeds").InsertOne(ctx, feed); err != nil {
		f.t.Fatalf("failed to create test reshare: %v", err)
	}
	return feed
}

// CreateNotification creates a notification for the given recipient.
func (f *Fixtures) CreateNotification(ctx context.Context, userID, fromID primitive.ObjectID, typ, text string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FromID:    fromID,
		Type:      typ,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

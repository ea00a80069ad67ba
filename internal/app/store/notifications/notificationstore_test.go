package notificationstore_test

import (
	"errors"
	"fmt"
	"testing"

	notificationstore "github.com/parishapps/parishfeed/internal/app/store/notifications"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"github.com/parishapps/parishfeed/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	feedID := primitive.NewObjectID()

	n, created, err := store.Create(ctx, models.Notification{
		UserID: recipient,
		FromID: actor,
		Type:   models.NotifyFeedLiked,
		FeedID: &feedID,
		Text:   "Ada liked your post",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatal("expected notification to be created")
	}
	if n.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if n.IsRead {
		t.Error("new notification should be unread")
	}
}

func TestStore_Create_SkipsSelfNotify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	_, created, err := store.Create(ctx, models.Notification{
		UserID: userID,
		FromID: userID,
		Type:   models.NotifyFeedLiked,
		Text:   "liked own post",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created {
		t.Error("self-notification should be suppressed")
	}
}

func TestStore_Create_DedupWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	feedID := primitive.NewObjectID()
	n := models.Notification{
		UserID: recipient,
		FromID: actor,
		Type:   models.NotifyFeedLiked,
		FeedID: &feedID,
		Text:   "Ada liked your post",
	}

	_, created, err := store.Create(ctx, n)
	if err != nil || !created {
		t.Fatalf("first Create: created=%v err=%v", created, err)
	}

	// Immediate repeat of the same event is suppressed.
	_, created, err = store.Create(ctx, n)
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if created {
		t.Error("duplicate within window should be suppressed")
	}

	// A different feed from the same actor is not a duplicate.
	otherFeed := primitive.NewObjectID()
	n2 := n
	n2.FeedID = &otherFeed
	_, created, err = store.Create(ctx, n2)
	if err != nil || !created {
		t.Errorf("different feed: created=%v err=%v", created, err)
	}

	// A different type on the same feed is not a duplicate either.
	n3 := n
	n3.Type = models.NotifyFeedCommented
	_, created, err = store.Create(ctx, n3)
	if err != nil || !created {
		t.Errorf("different type: created=%v err=%v", created, err)
	}
}

func TestStore_ListByUser_NewestFirstCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for i := 0; i < notificationstore.ListLimit+5; i++ {
		fixtures.CreateNotification(ctx, recipient, primitive.NewObjectID(),
			models.NotifyFeedLiked, fmt.Sprintf("like %d", i))
	}
	fixtures.CreateNotification(ctx, other, primitive.NewObjectID(),
		models.NotifyFeedLiked, "someone else's")

	got, err := store.ListByUser(ctx, recipient)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(got) != notificationstore.ListLimit {
		t.Fatalf("got %d notifications, want %d", len(got), notificationstore.ListLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("not newest-first at index %d", i)
		}
	}
	for _, n := range got {
		if n.UserID != recipient {
			t.Errorf("leaked another user's notification: %+v", n)
		}
	}
}

func TestStore_MarkReadAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	n1 := fixtures.CreateNotification(ctx, recipient, primitive.NewObjectID(), models.NotifyFeedLiked, "one")
	fixtures.CreateNotification(ctx, recipient, primitive.NewObjectID(), models.NotifyFeedCommented, "two")

	count, err := store.UnreadCount(ctx, recipient)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("unread: got %d, want 2", count)
	}

	if err := store.MarkRead(ctx, n1.ID, recipient); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, _ = store.UnreadCount(ctx, recipient)
	if count != 1 {
		t.Errorf("unread after MarkRead: got %d, want 1", count)
	}

	// Another user cannot mark someone else's notification.
	if err := store.MarkRead(ctx, n1.ID, primitive.NewObjectID()); !errors.Is(err, notificationstore.ErrNotificationNotFound) {
		t.Errorf("cross-user MarkRead: expected ErrNotificationNotFound, got %v", err)
	}

	updated, err := store.MarkAllRead(ctx, recipient)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("MarkAllRead updated %d, want 1", updated)
	}
	count, _ = store.UnreadCount(ctx, recipient)
	if count != 0 {
		t.Errorf("unread after MarkAllRead: got %d, want 0", count)
	}
}

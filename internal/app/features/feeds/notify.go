// internal/app/features/feeds/notify.go
package feeds

import (
	"context"
	"fmt"

	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifications are best-effort side effects of a committed mutation:
// failures are logged, never surfaced to the request that caused them.
// The store handles self-notify suppression and dedup.

// notifyOne records a notification for a single recipient and pushes a
// newNotification event to their open sockets.
func (h *Handler) notifyOne(ctx context.Context, n models.Notification) {
	created, ok, err := h.Notifs.Create(ctx, n)
	if err != nil {
		h.Log.Warn("create notification", zap.String("type", n.Type), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	h.Bus.SendToUser(n.UserID.Hex(), realtime.Event{
		Name:    realtime.EventNewNotification,
		Payload: created,
	})
}

// notifyNewFeed tells every other user about a new post.
func (h *Handler) notifyNewFeed(ctx context.Context, f models.Feed, authorName string) {
	ids, err := h.Users.ListIDsExcept(ctx, f.AuthorID)
	if err != nil {
		h.Log.Warn("list notification recipients", zap.Error(err))
		return
	}
	text := fmt.Sprintf("%s shared a new post", authorName)
	for _, id := range ids {
		h.notifyOne(ctx, models.Notification{
			UserID: id,
			FromID: f.AuthorID,
			Type:   models.NotifyNewFeed,
			FeedID: &f.ID,
			Text:   text,
		})
	}
}

// notifyFeedAuthor tells the feed's author someone acted on their post.
func (h *Handler) notifyFeedAuthor(ctx context.Context, f models.Feed, actorID primitive.ObjectID, actorName, typ, verb string) {
	h.notifyOne(ctx, models.Notification{
		UserID: f.AuthorID,
		FromID: actorID,
		Type:   typ,
		FeedID: &f.ID,
		Text:   fmt.Sprintf("%s %s your post", actorName, verb),
	})
}

// internal/app/features/feeds/comment.go
package feeds

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/projection"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleAddComment appends a comment to a feed.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	v, err := requireViewer(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	feedID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierr.Write(w, apierr.Wrap(apierr.InvalidArgument, "bad request body", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Feeds.AddComment(ctx, feedID, v.UserID, in.Text)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	authors, err := h.Users.GetMany(ctx, []primitive.ObjectID{c.AuthorID})
	if err != nil {
		apierr.Write(w, err)
		return
	}
	view := projection.ProjectComment(feedID, c, authors)
	h.writeJSON(w, http.StatusCreated, view)

	h.Bus.Broadcast(realtime.Event{Name: realtime.EventCommentAdded, Payload: view})

	if f, err := h.Feeds.GetByID(ctx, feedID); err == nil {
		name := ""
		if u, ok := auth.CurrentUser(r); ok {
			name = u.Name
		}
		h.notifyFeedAuthor(ctx, f, v.UserID, name, models.NotifyFeedCommented, "commented on")
	}
}

// HandleDeleteComment removes one comment (comment author or admin).
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	v, err := requireViewer(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	feedID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	remaining, err := h.Feeds.RemoveComment(ctx, feedID, commentID, v)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	authorIDs := make([]primitive.ObjectID, 0, len(remaining))
	for _, c := range remaining {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := h.Users.GetMany(ctx, authorIDs)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	views := make([]projection.CommentView, 0, len(remaining))
	for _, c := range remaining {
		views = append(views, projection.ProjectComment(feedID, c, authors))
	}
	h.writeJSON(w, http.StatusOK, views)

	h.Bus.Broadcast(realtime.Event{Name: realtime.EventCommentDeleted, Payload: map[string]string{
		"feedId":    feedID.Hex(),
		"commentId": commentID.Hex(),
	}})
}

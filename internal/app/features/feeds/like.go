// internal/app/features/feeds/like.go
package feeds

import (
	"context"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"github.com/parishapps/parishfeed/internal/domain/models"
)

type likeResult struct {
	FeedID    string `json:"feedId"`
	LikeCount int    `json:"likeCount"`
	Liked     bool   `json:"liked"`
}

// HandleToggleLike flips the caller's like on a feed. The same payload
// goes to the caller and to the broadcast, so every client converges on
// the committed count.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	count, liked, err := h.Feeds.ToggleLike(ctx, feedID, v.UserID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	result := likeResult{FeedID: feedID.Hex(), LikeCount: count, Liked: liked}
	h.writeJSON(w, http.StatusOK, result)

	h.Bus.Broadcast(realtime.Event{Name: realtime.EventFeedLiked, Payload: result})

	if liked {
		if f, err := h.Feeds.GetByID(ctx, feedID); err == nil {
			name := ""
			if u, ok := auth.CurrentUser(r); ok {
				name = u.Name
			}
			h.notifyFeedAuthor(ctx, f, v.UserID, name, models.NotifyFeedLiked, "liked")
		}
	}
}

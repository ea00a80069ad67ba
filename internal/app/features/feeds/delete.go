// internal/app/features/feeds/delete.go
package feeds

import (
	"context"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDeleteFeed removes a feed (author or admin). Reshares of it are
// left in place; their originals just stop resolving.
func (h *Handler) HandleDeleteFeed(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Feeds.Delete(ctx, feedID, v); err != nil {
		apierr.Write(w, err)
		return
	}

	// Tidy up notifications pointing at the gone feed.
	if _, err := h.Notifs.DeleteByFeed(ctx, feedID); err != nil {
		h.Log.Warn("delete feed notifications", zap.Error(err))
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Feed deleted successfully",
		"feedId":  feedID.Hex(),
	})

	h.Bus.Broadcast(realtime.Event{Name: realtime.EventFeedDeleted, Payload: feedID.Hex()})
}

// internal/app/features/feeds/pin.go
package feeds

import (
	"context"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleTogglePin flips the admin pin on a feed. Both the specific
// pinned/unpinned event and a generic feedUpdated go out, so clients
// that only track updates still converge.
func (h *Handler) HandleTogglePin(w http.ResponseWriter, r *http.Request) {
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

	after, err := h.Feeds.TogglePin(ctx, feedID, v)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	view, err := h.projectOne(ctx, after, v)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	msg := "Post pinned successfully"
	if !after.IsPinned {
		msg = "Post unpinned successfully"
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"feed":    view,
	})

	public, err := h.projectOne(ctx, after, feedpolicy.Actor{})
	if err != nil {
		h.Log.Warn("project broadcast view", zap.Error(err))
		return
	}
	name := realtime.EventFeedPinned
	if !after.IsPinned {
		name = realtime.EventFeedUnpinned
	}
	h.Bus.Broadcast(realtime.Event{Name: name, Payload: public})
	h.Bus.Broadcast(realtime.Event{Name: realtime.EventFeedUpdated, Payload: public})
}

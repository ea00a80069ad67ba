// internal/app/features/feeds/get.go
package feeds

import (
	"context"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
)

// HandleGetFeed serves one feed by id.
func (h *Handler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.Feeds.GetByID(ctx, id)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	view, err := h.projectOne(ctx, f, viewer(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

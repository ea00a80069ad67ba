// internal/app/features/feeds/list.go
package feeds

import (
	"context"
	"net/http"
	"strconv"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
)

// HandleListFeeds serves one page of the global feed, newest first.
// ?page= is 1-based and defaults to 1.
func (h *Handler) HandleListFeeds(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierr.Write(w, apierr.New(apierr.InvalidArgument, "page must be a positive integer"))
			return
		}
		page = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fs, err := h.Feeds.List(ctx, page)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	views, err := h.projectFeeds(ctx, fs, viewer(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

// HandleListByUser serves all feeds by one author.
func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fs, err := h.Feeds.ListByAuthor(ctx, authorID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	views, err := h.projectFeeds(ctx, fs, viewer(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

// HandleListMine serves the signed-in user's own feeds.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	v, err := requireViewer(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fs, err := h.Feeds.ListByAuthor(ctx, v.UserID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	views, err := h.projectFeeds(ctx, fs, v)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

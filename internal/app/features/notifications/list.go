// internal/app/features/notifications/list.go
package notifications

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("write response", zap.Error(err))
	}
}

// HandleList returns the caller's newest notifications.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifs.ListByUser(ctx, userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, list)
}

// HandleUnreadCount returns how many unread notifications the caller has.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.Notifs.UnreadCount(ctx, userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, map[string]int64{"count": count})
}

// HandleMarkRead marks one of the caller's notifications read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.InvalidArgument, "bad id", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifs.MarkRead(ctx, id, userID); err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"id": id.Hex()})
}

// HandleMarkAllRead marks every unread notification of the caller read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Notifs.MarkAllRead(ctx, userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, map[string]int64{"updated": updated})
}

// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
)

func Routes(h *Handler, mgr *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(mgr.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Get("/unread-count", h.HandleUnreadCount)
	r.Put("/{id}/read", h.HandleMarkRead)
	r.Put("/mark-all-read", h.HandleMarkAllRead)

	return r
}

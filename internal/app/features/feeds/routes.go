// internal/app/features/feeds/routes.go
package feeds

import (
	"github.com/go-chi/chi/v5"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
)

func Routes(h *Handler, mgr *auth.Manager) chi.Router {
	r := chi.NewRouter()

	// Reads are public. Projection still varies by viewer, so these
	// resolve an identity when a token is present and fall back to an
	// anonymous viewer when not.
	r.Get("/", h.withOptionalUser(mgr, h.HandleListFeeds))
	r.Get("/user/{id}", h.withOptionalUser(mgr, h.HandleListByUser))

	// Mutations and viewer-bound reads require authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(mgr.RequireSignedIn)

		pr.Post("/", h.HandleCreateFeed)
		pr.Get("/me", h.HandleListMine)
		pr.Post("/{id}/like", h.HandleToggleLike)
		pr.Post("/{id}/comment", h.HandleAddComment)
		pr.Delete("/{id}/comment/{commentID}", h.HandleDeleteComment)
		pr.Put("/{id}", h.HandleEditFeed)
		pr.Delete("/{id}", h.HandleDeleteFeed)
		pr.Patch("/{id}/toggle-pin", h.HandleTogglePin)
	})

	// Registered last so "/me" and "/user/..." match their own routes.
	r.Get("/{id}", h.withOptionalUser(mgr, h.HandleGetFeed))

	return r
}

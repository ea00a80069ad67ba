// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// The directory is public, like the feed itself.
	r.Get("/", h.HandleList)

	return r
}

// internal/app/features/auth/me.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	sysauth "github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleMe returns the signed-in user's current profile from the store,
// not the (possibly stale) token claims.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := sysauth.CurrentUser(r)
	if !ok {
		apierr.Write(w, apierr.New(apierr.Unauthenticated, "no token, authorization denied"))
		return
	}
	id, err := primitive.ObjectIDFromHex(u.UserID)
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.Unauthenticated, "token subject is not a valid id", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}

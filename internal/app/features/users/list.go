// internal/app/features/users/list.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/parishapps/parishfeed/internal/app/projection"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// memberView is the directory entry: name, parish, and role only.
type memberView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Church string `json:"church"`
	Role   string `json:"role"`
}

// HandleList returns every community member with their parish display
// name and role.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	views := make([]memberView, 0, len(users))
	for _, u := range users {
		views = append(views, memberView{
			ID:     u.ID.Hex(),
			Name:   u.Name,
			Church: projection.ChurchDisplayName(u.Church),
			Role:   u.Role,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		h.Log.Warn("write response", zap.Error(err))
	}
}

// internal/app/features/auth/logout.go
package auth

import (
	"encoding/json"
	"net/http"

	sysauth "github.com/parishapps/parishfeed/internal/app/system/auth"
)

// HandleLogout revokes the presented token. Revocation lives in memory,
// so a restart forgets it; token expiry bounds the exposure.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if raw, ok := sysauth.BearerToken(r); ok {
		h.Tokens.Revoke(raw)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
}

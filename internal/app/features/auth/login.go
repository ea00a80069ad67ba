// internal/app/features/auth/login.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/parishapps/parishfeed/internal/app/store/users"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// errBadCredentials deliberately does not say whether the email or the
// password was wrong.
var errBadCredentials = apierr.New(apierr.InvalidArgument, "Invalid credentials")

// HandleLogin verifies email and password and issues a token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierr.Write(w, apierr.Wrap(apierr.InvalidArgument, "bad request body", err))
		return
	}
	if in.Email == "" || in.Password == "" {
		apierr.Write(w, apierr.New(apierr.InvalidArgument, "email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			apierr.Write(w, errBadCredentials)
			return
		}
		apierr.Write(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		apierr.Write(w, errBadCredentials)
		return
	}

	token, err := h.Tokens.IssueToken(u)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err))
		apierr.Write(w, apierr.Wrap(apierr.Internal, "issue token", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResponse{Token: token, User: u})
}

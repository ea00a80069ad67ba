// internal/app/features/auth/register.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Church   string `json:"church"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// HandleRegister creates an account and signs the new user in. Accounts
// start on probation; an admin activates them later.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierr.Write(w, apierr.Wrap(apierr.InvalidArgument, "bad request body", err))
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		apierr.Write(w, apierr.New(apierr.InvalidArgument, "name, email, and password are required"))
		return
	}
	if len(in.Password) < 6 {
		apierr.Write(w, apierr.New(apierr.InvalidArgument, "password must be at least 6 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		apierr.Write(w, apierr.Wrap(apierr.Internal, "hash password", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Gender:       in.Gender,
		Church:       in.Church,
	})
	if err != nil {
		apierr.Write(w, err)
		return
	}

	token, err := h.Tokens.IssueToken(created)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err))
		apierr.Write(w, apierr.Wrap(apierr.Internal, "issue token", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(authResponse{Token: token, User: created})
}

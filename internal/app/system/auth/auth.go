// Package auth resolves bearer tokens to an authenticated identity and
// injects it into the request context. Tokens are HS256 JWTs carrying
// {userId, role}; logout adds the presented token to an in-memory
// blacklist (reset on restart, like the original deployment).
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.uber.org/zap"
)

// Identity is what a valid token resolves to.
type Identity struct {
	UserID string
	Name   string
	Role   string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the identity injected by RequireSignedIn (or a test).
func CurrentUser(r *http.Request) (*Identity, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Identity)
	return u, ok
}

// WithIdentity injects an already-resolved identity into the request
// context. Used by middleware that authenticates optionally and by test
// helpers that bypass token parsing.
func WithIdentity(r *http.Request, u *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

type claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies tokens.
type Manager struct {
	secret    []byte
	expiry    time.Duration
	blacklist *Blacklist
	log       *zap.Logger
}

// NewManager builds a token manager. The secret must be non-empty; short
// secrets get a warning, matching how the session key was handled before.
func NewManager(secret string, expiry time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{
		secret:    []byte(secret),
		expiry:    expiry,
		blacklist: NewBlacklist(),
		log:       logger,
	}, nil
}

// IssueToken signs a token for the given user.
func (m *Manager) IssueToken(u models.User) (string, error) {
	now := time.Now().UTC()
	c := claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// ParseToken verifies a raw token and returns the identity it carries.
// Blacklisted tokens fail with Unauthenticated.
func (m *Manager) ParseToken(raw string) (*Identity, error) {
	if m.blacklist.Has(raw) {
		return nil, apierr.New(apierr.Unauthenticated, "token has been revoked")
	}
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apierr.Wrap(apierr.Unauthenticated, "token is not valid", err)
	}
	return &Identity{UserID: c.Subject, Name: c.Name, Role: c.Role}, nil
}

// Revoke blacklists a raw token until restart.
func (m *Manager) Revoke(raw string) { m.blacklist.Add(raw) }

// BearerToken extracts the token from an Authorization: Bearer header,
// falling back to a "token" query parameter for WebSocket handshakes.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), true
	}
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok, true
	}
	return "", false
}

// Authenticate resolves the request's bearer token to an identity.
func (m *Manager) Authenticate(r *http.Request) (*Identity, error) {
	raw, ok := BearerToken(r)
	if !ok {
		return nil, apierr.New(apierr.Unauthenticated, "no token, authorization denied")
	}
	return m.ParseToken(raw)
}

// RequireSignedIn rejects requests without a valid token and injects the
// identity into context for downstream handlers.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			// Already injected (tests, or nested routers).
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.Authenticate(r)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, id)))
	})
}

// RequireRole layers a role check on top of RequireSignedIn.
func (m *Manager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := CurrentUser(r)
			if _, ok := set[strings.ToLower(u.Role)]; !ok {
				apierr.Write(w, apierr.New(apierr.Forbidden, "forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

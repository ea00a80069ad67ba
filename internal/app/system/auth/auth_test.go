package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func testUser(role string) models.User {
	return models.User{
		ID:   primitive.NewObjectID(),
		Name: "Test User",
		Role: role,
	}
}

func TestIssueAndParseToken(t *testing.T) {
	m := newManager(t)
	u := testUser(models.RoleActive)

	tok, err := m.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	id, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.UserID != u.ID.Hex() {
		t.Errorf("userID: got %q, want %q", id.UserID, u.ID.Hex())
	}
	if id.Role != models.RoleActive {
		t.Errorf("role: got %q, want %q", id.Role, models.RoleActive)
	}
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	m := newManager(t)
	if _, err := m.ParseToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	m := newManager(t)
	other, err := auth.NewManager("ffffffffffffffffffffffffffffffff", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	tok, err := other.IssueToken(testUser(models.RoleActive))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestRevoke_BlacklistsToken(t *testing.T) {
	m := newManager(t)
	tok, err := m.IssueToken(testUser(models.RoleActive))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := m.ParseToken(tok); err != nil {
		t.Fatalf("token should be valid before revoke: %v", err)
	}
	m.Revoke(tok)
	if _, err := m.ParseToken(tok); err == nil {
		t.Error("expected revoked token to be rejected")
	}
}

func TestRequireSignedIn(t *testing.T) {
	m := newManager(t)
	tok, err := m.IssueToken(testUser(models.RoleActive))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var seen *auth.Identity
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	// No token: 401.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want 401", rec.Code)
	}

	// Valid token: identity in context.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("valid token: got %d, want 204", rec.Code)
	}
	if seen == nil || seen.Role != models.RoleActive {
		t.Errorf("identity not injected: %+v", seen)
	}
}

func TestWithIdentity_SatisfiesRequireSignedIn(t *testing.T) {
	m := newManager(t)

	var seen *auth.Identity
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	// A pre-resolved identity passes without a token, which is what the
	// optional-auth middleware relies on.
	req := auth.WithIdentity(httptest.NewRequest("GET", "/", nil),
		&auth.Identity{UserID: "u1", Name: "Ada", Role: models.RoleActive})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("injected identity: got %d, want 204", rec.Code)
	}
	if seen == nil || seen.UserID != "u1" {
		t.Errorf("identity not visible downstream: %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	m := newManager(t)
	adminTok, _ := m.IssueToken(testUser(models.RoleAdmin))
	memberTok, _ := m.IssueToken(testUser(models.RoleActive))

	h := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+memberTok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member: got %d, want 403", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: got %d, want 204", rec.Code)
	}
}

func TestBearerToken_QueryFallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws?token=abc", nil)
	tok, ok := auth.BearerToken(req)
	if !ok || tok != "abc" {
		t.Errorf("got %q/%v, want abc/true", tok, ok)
	}
}

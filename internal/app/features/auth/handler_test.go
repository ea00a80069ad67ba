package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/parishapps/parishfeed/internal/app/features/auth"
	sysauth "github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/indexes"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"github.com/parishapps/parishfeed/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *auth.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// The unique email index backs duplicate-registration detection.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	tokens, err := sysauth.NewManager("0123456789abcdef0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return auth.NewHandler(db, tokens, zap.NewNop())
}

func register(t *testing.T, h *auth.Handler, name, email, password string) (string, models.User) {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `","church":"st_marys"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.Token, resp.User
}

func TestHandleRegister(t *testing.T) {
	h := newTestHandler(t)

	token, user := register(t, h, "Ada Obi", "ada@example.com", "secret123")
	if token == "" {
		t.Error("expected a token")
	}
	if user.Role != models.RoleProbation {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleProbation)
	}

	// The token must resolve back to this user.
	id, err := h.Tokens.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.UserID != user.ID.Hex() {
		t.Errorf("token subject: got %q, want %q", id.UserID, user.ID.Hex())
	}

	// The password hash must never leak.
	if user.PasswordHash != "" {
		t.Error("password hash present in response")
	}
}

func TestHandleRegister_Validation(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.c","password":"secret123"}`},
		{"missing email", `{"name":"Ada","password":"secret123"}`},
		{"short password", `{"name":"Ada","email":"a@b.c","password":"abc"}`},
		{"garbage", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.HandleRegister(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	register(t, h, "Ada", "ada@example.com", "secret123")

	body := `{"name":"Other Ada","email":"ada@example.com","password":"secret456"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d, want 400\nbody: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin(t *testing.T) {
	h := newTestHandler(t)

	_, user := register(t, h, "Ada", "ada@example.com", "secret123")

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Errorf("user: got %v, want %v", resp.User.ID, user.ID)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	h := newTestHandler(t)

	register(t, h, "Ada", "ada@example.com", "secret123")

	for _, body := range []string{
		`{"email":"ada@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"secret123"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("got %d, want 400", rec.Code)
		}
		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["error"] != "Invalid credentials" {
			t.Errorf("error: got %q", resp["error"])
		}
	}
}

func TestHandleMe(t *testing.T) {
	h := newTestHandler(t)

	token, user := register(t, h, "Ada", "ada@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Tokens.RequireSignedIn(http.HandlerFunc(h.HandleMe)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("me: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var got models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != user.ID || got.Email != "ada@example.com" {
		t.Errorf("got %+v", got)
	}
}

func TestHandleLogout_RevokesToken(t *testing.T) {
	h := newTestHandler(t)

	token, _ := register(t, h, "Ada", "ada@example.com", "secret123")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}

	// The revoked token no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.Tokens.RequireSignedIn(http.HandlerFunc(h.HandleMe)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d, want 401", rec.Code)
	}
}

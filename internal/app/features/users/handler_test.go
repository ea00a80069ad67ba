package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parishapps/parishfeed/internal/app/features/users"
	"github.com/parishapps/parishfeed/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Bolu", "bolu@example.com")
	fixtures.CreateAdmin(ctx, "Ada", "ada@example.com")

	// The directory is public: no identity on the request.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var list []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Church string `json:"church"`
		Role   string `json:"role"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d entries, want 2", len(list))
	}
	// Sorted by name, church key mapped to its display name, and nothing
	// beyond the directory fields exposed.
	if list[0].Name != "Ada" || list[1].Name != "Bolu" {
		t.Errorf("order: %q, %q", list[0].Name, list[1].Name)
	}
	if list[0].Church != "St. Mary's Catholic Church Ijagemo" {
		t.Errorf("church: got %q", list[0].Church)
	}
	if list[0].Role != "admin" || list[1].Role != "active" {
		t.Errorf("roles: %q, %q", list[0].Role, list[1].Role)
	}
	for _, m := range list {
		if m.Email != "" {
			t.Errorf("email leaked in directory: %+v", m)
		}
	}
}

func TestHandleList_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := users.NewHandler(db, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d entries, want 0", len(list))
	}
}

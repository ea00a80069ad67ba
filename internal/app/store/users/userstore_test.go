package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/parishapps/parishfeed/internal/app/store/users"
	"github.com/parishapps/parishfeed/internal/app/system/indexes"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"github.com/parishapps/parishfeed/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:         "Ada Obi",
		Email:        "  Ada@Example.COM ",
		PasswordHash: "hash",
		Church:       models.ChurchStBrendan,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.Role != models.RoleProbation {
		t.Errorf("default role: got %q, want %q", created.Role, models.RoleProbation)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	u := models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, u); !errors.Is(err, userstore.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateMember(ctx, "Chidi", "chidi@example.com")

	got, err := store.GetByEmail(ctx, " CHIDI@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("got %v, want %v", got.ID, u.ID)
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_GetMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateMember(ctx, "Ada", "ada@example.com")
	b := fixtures.CreateMember(ctx, "Bolu", "bolu@example.com")
	missing := primitive.NewObjectID()

	got, err := store.GetMany(ctx, []primitive.ObjectID{a.ID, b.ID, missing})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d users, want 2", len(got))
	}
	if got[a.ID].Name != "Ada" || got[b.ID].Name != "Bolu" {
		t.Errorf("wrong users: %+v", got)
	}
	if _, ok := got[missing]; ok {
		t.Error("missing id should be absent, not zero-valued")
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Chidi", "chidi@example.com")
	fixtures.CreateMember(ctx, "Ada", "ada@example.com")
	fixtures.CreateMember(ctx, "Bolu", "bolu@example.com")

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users, want 3", len(users))
	}
	want := []string{"Ada", "Bolu", "Chidi"}
	for i, name := range want {
		if users[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, users[i].Name, name)
		}
	}
}

func TestStore_ListIDsExcept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateMember(ctx, "Ada", "ada@example.com")
	b := fixtures.CreateMember(ctx, "Bolu", "bolu@example.com")
	c := fixtures.CreateMember(ctx, "Chidi", "chidi@example.com")

	ids, err := store.ListIDsExcept(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListIDsExcept failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	for _, id := range ids {
		if id == a.ID {
			t.Error("excluded id present in result")
		}
		if id != b.ID && id != c.ID {
			t.Errorf("unexpected id %v", id)
		}
	}
}

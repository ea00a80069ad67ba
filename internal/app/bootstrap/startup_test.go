package bootstrap

import (
	"testing"

	"github.com/dalemusser/waffle/config"
	"github.com/parishapps/parishfeed/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{ParishFeedMongoDatabase: db}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Running it again must be a no-op, not an error.
	if err := EnsureSchema(ctx, &config.CoreConfig{}, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema second run failed: %v", err)
	}

	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)

	found := false
	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		if idx.Name == "email_unique" {
			found = true
		}
	}
	if !found {
		t.Error("email_unique index not created")
	}
}

func TestValidateConfig(t *testing.T) {
	appCfg := AppConfig{
		MongoURI:  "mongodb://localhost:27017",
		JWTSecret: "dev-only-change-me-please-0123456789ABCDEF",
	}

	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, appCfg, testLogger()); err != nil {
		t.Errorf("dev config rejected: %v", err)
	}
	if err := ValidateConfig(&config.CoreConfig{Env: "prod"}, appCfg, testLogger()); err == nil {
		t.Error("prod with default jwt secret should be rejected")
	}

	bad := appCfg
	bad.MongoURI = "not-a-uri"
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, bad, testLogger()); err == nil {
		t.Error("bad mongo uri should be rejected")
	}
}

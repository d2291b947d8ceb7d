package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/smart-starter/internal/config"
)

// SetupTestDB creates a test database connection and ensures the schema.
// Tests that need a live database should call this and skip when the
// database is unreachable.
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.Load("../../config/config.yaml")
	if err != nil {
		t.Skipf("skipping database test, config unavailable: %v", err)
	}

	if !cfg.Database.Enabled {
		t.Skip("skipping database test, database disabled in config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("skipping database test, connection failed: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	db.Close()
}

package database

import (
	"context"
	"fmt"

	"github.com/yourusername/smart-starter/internal/config"
)

// schema holds the DDL for the projection store. Kept idempotent so
// startup can run it unconditionally.
const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
	id UUID PRIMARY KEY,
	scoring_format TEXT NOT NULL,
	performance JSONB NOT NULL,
	importance JSONB NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_training_runs_completed ON training_runs (completed_at DESC);

CREATE TABLE IF NOT EXISTS projections (
	id UUID PRIMARY KEY,
	run_id UUID REFERENCES training_runs (id),
	player_name TEXT NOT NULL,
	team TEXT,
	position TEXT NOT NULL,
	base_proj DOUBLE PRECISION NOT NULL,
	projection DOUBLE PRECISION NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	model_used TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_projections_player ON projections (player_name, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_projections_run ON projections (run_id);
`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the projection store tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

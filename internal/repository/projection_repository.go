package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/smart-starter/internal/database"
	"github.com/yourusername/smart-starter/internal/models"
)

// PostgresProjectionRepository implements ProjectionRepository for PostgreSQL
type PostgresProjectionRepository struct {
	db *database.DB
}

// NewPostgresProjectionRepository creates a new projection repository
func NewPostgresProjectionRepository(db *database.DB) ProjectionRepository {
	return &PostgresProjectionRepository{db: db}
}

// InsertBatch inserts projections for a run in a single transaction
func (r *PostgresProjectionRepository) InsertBatch(ctx context.Context, projections []*models.StoredProjection) error {
	if len(projections) == 0 {
		return nil
	}

	query := `
		INSERT INTO projections (id, run_id, player_name, team, position, base_proj, projection, confidence, model_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range projections {
			batch.Queue(query,
				p.ID, p.RunID, p.PlayerName, p.Team, p.Position,
				p.BaseProj, p.Projection, p.Confidence, p.ModelUsed, p.CreatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range projections {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert projection: %w", err)
			}
		}
		return nil
	})
}

// GetByRunID retrieves all projections for a training run
func (r *PostgresProjectionRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.StoredProjection, error) {
	query := `
		SELECT id, run_id, player_name, team, position, base_proj, projection, confidence, model_used, created_at
		FROM projections
		WHERE run_id = $1
		ORDER BY projection DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projections: %w", err)
	}
	defer rows.Close()

	return scanProjections(rows)
}

// GetHistoryForPlayer retrieves recent projections for a player, newest first
func (r *PostgresProjectionRepository) GetHistoryForPlayer(ctx context.Context, playerName string, limit int) ([]*models.StoredProjection, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, run_id, player_name, team, position, base_proj, projection, confidence, model_used, created_at
		FROM projections
		WHERE player_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection history: %w", err)
	}
	defer rows.Close()

	return scanProjections(rows)
}

func scanProjections(rows pgx.Rows) ([]*models.StoredProjection, error) {
	var projections []*models.StoredProjection
	for rows.Next() {
		p := &models.StoredProjection{}
		err := rows.Scan(
			&p.ID, &p.RunID, &p.PlayerName, &p.Team, &p.Position,
			&p.BaseProj, &p.Projection, &p.Confidence, &p.ModelUsed, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		projections = append(projections, p)
	}
	return projections, rows.Err()
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/smart-starter/internal/database"
	"github.com/yourusername/smart-starter/internal/models"
)

// PostgresTrainingRunRepository implements TrainingRunRepository for PostgreSQL
type PostgresTrainingRunRepository struct {
	db *database.DB
}

// NewPostgresTrainingRunRepository creates a new training run repository
func NewPostgresTrainingRunRepository(db *database.DB) TrainingRunRepository {
	return &PostgresTrainingRunRepository{db: db}
}

// Create inserts a new training run. Per-position performance and
// importance maps are stored as JSONB.
func (r *PostgresTrainingRunRepository) Create(ctx context.Context, run *models.TrainingRun) error {
	performance, err := json.Marshal(run.Performance)
	if err != nil {
		return fmt.Errorf("failed to marshal performance: %w", err)
	}
	importance, err := json.Marshal(run.Importance)
	if err != nil {
		return fmt.Errorf("failed to marshal importance: %w", err)
	}

	query := `
		INSERT INTO training_runs (id, scoring_format, performance, importance, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		run.ID, run.Format, performance, importance, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create training run: %w", err)
	}

	return nil
}

// GetByID retrieves a training run by ID
func (r *PostgresTrainingRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrainingRun, error) {
	query := `
		SELECT id, scoring_format, performance, importance, started_at, completed_at
		FROM training_runs WHERE id = $1
	`

	return r.scanRun(r.db.GetPool().QueryRow(ctx, query, id))
}

// GetLatest retrieves the most recently completed training run
func (r *PostgresTrainingRunRepository) GetLatest(ctx context.Context) (*models.TrainingRun, error) {
	query := `
		SELECT id, scoring_format, performance, importance, started_at, completed_at
		FROM training_runs
		ORDER BY completed_at DESC
		LIMIT 1
	`

	return r.scanRun(r.db.GetPool().QueryRow(ctx, query))
}

// List retrieves recent training runs, newest first
func (r *PostgresTrainingRunRepository) List(ctx context.Context, limit int) ([]*models.TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, scoring_format, performance, importance, started_at, completed_at
		FROM training_runs
		ORDER BY completed_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query training runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.TrainingRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// scanRun scans a training run row and decodes its JSONB columns
func (r *PostgresTrainingRunRepository) scanRun(row pgx.Row) (*models.TrainingRun, error) {
	run := &models.TrainingRun{}
	var performance, importance []byte

	err := row.Scan(&run.ID, &run.Format, &performance, &importance, &run.StartedAt, &run.CompletedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan training run: %w", err)
	}

	if err := json.Unmarshal(performance, &run.Performance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal performance: %w", err)
	}
	if err := json.Unmarshal(importance, &run.Importance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal importance: %w", err)
	}

	return run, nil
}

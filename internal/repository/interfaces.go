package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/smart-starter/internal/models"
)

// TrainingRunRepository defines the interface for training run data access
type TrainingRunRepository interface {
	Create(ctx context.Context, run *models.TrainingRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrainingRun, error)
	GetLatest(ctx context.Context) (*models.TrainingRun, error)
	List(ctx context.Context, limit int) ([]*models.TrainingRun, error)
}

// ProjectionRepository defines the interface for stored projection data access
type ProjectionRepository interface {
	InsertBatch(ctx context.Context, projections []*models.StoredProjection) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.StoredProjection, error)
	GetHistoryForPlayer(ctx context.Context, playerName string, limit int) ([]*models.StoredProjection, error)
}

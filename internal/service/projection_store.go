package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/repository"
)

// ProjectionStore persists training runs and their projections
type ProjectionStore struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewProjectionStore creates a new projection store
func NewProjectionStore(repos *repository.Repositories, logger *logrus.Logger) *ProjectionStore {
	return &ProjectionStore{
		repos:  repos,
		logger: logger,
	}
}

// StoreRun persists a training run record and the projections produced
// under it. The run row is written first so projections can reference it.
func (s *ProjectionStore) StoreRun(
	ctx context.Context,
	format models.ScoringFormat,
	performance map[models.Position]models.ModelPerformance,
	importance map[models.Position]models.FeatureImportance,
	startedAt time.Time,
	players []models.EnhancedPlayer,
) (*models.TrainingRun, error) {
	run := &models.TrainingRun{
		ID:          uuid.New(),
		Format:      format,
		Performance: performance,
		Importance:  importance,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	}

	if err := s.repos.TrainingRun.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to store training run: %w", err)
	}

	projections := make([]*models.StoredProjection, 0, len(players))
	for _, p := range players {
		projections = append(projections, &models.StoredProjection{
			ID:         uuid.New(),
			RunID:      run.ID,
			PlayerName: p.Name,
			Team:       p.Team,
			Position:   p.Position,
			BaseProj:   p.BaseProjection,
			Projection: p.Projection,
			Confidence: p.Confidence,
			ModelUsed:  p.ModelUsed,
			CreatedAt:  run.CompletedAt,
		})
	}

	if err := s.repos.Projection.InsertBatch(ctx, projections); err != nil {
		return nil, fmt.Errorf("failed to store projections: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":      run.ID,
		"projections": len(projections),
	}).Info("Stored training run")

	return run, nil
}

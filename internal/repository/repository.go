package repository

import (
	"fmt"

	"github.com/yourusername/smart-starter/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	TrainingRun TrainingRunRepository
	Projection  ProjectionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		TrainingRun: NewPostgresTrainingRunRepository(db),
		Projection:  NewPostgresProjectionRepository(db),
	}, nil
}

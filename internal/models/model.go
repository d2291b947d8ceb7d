package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ModelPerformance captures training-fit quality for one position's model.
// MSE and R-squared are computed in-sample on the training rows.
type ModelPerformance struct {
	MSE      float64 `json:"mse"`
	RSquared float64 `json:"r2"`
	Samples  int     `json:"samples"`
	Trained  bool    `json:"trained"`
}

// UntrainedPerformance returns the sentinel metrics recorded when a
// position's fit fails or has insufficient samples.
func UntrainedPerformance(samples int) ModelPerformance {
	return ModelPerformance{
		MSE:      math.Inf(1),
		RSquared: 0,
		Samples:  samples,
		Trained:  false,
	}
}

// FeatureImportance maps feature names to their relative importance weights
type FeatureImportance map[string]float64

// TrainingRun records one training invocation for persistence and reporting
type TrainingRun struct {
	ID          uuid.UUID                      `db:"id" json:"id"`
	Format      ScoringFormat                  `db:"scoring_format" json:"scoring_format"`
	Performance map[Position]ModelPerformance  `db:"performance" json:"performance"`
	Importance  map[Position]FeatureImportance `db:"importance" json:"importance"`
	StartedAt   time.Time                      `db:"started_at" json:"started_at"`
	CompletedAt time.Time                      `db:"completed_at" json:"completed_at"`
}

// StoredProjection is a persisted projection row for one player in one run
type StoredProjection struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RunID      uuid.UUID `db:"run_id" json:"run_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Team       string    `db:"team" json:"team"`
	Position   Position  `db:"position" json:"position"`
	BaseProj   float64   `db:"base_proj" json:"base_proj"`
	Projection float64   `db:"projection" json:"projection"`
	Confidence float64   `db:"confidence" json:"confidence"`
	ModelUsed  string    `db:"model_used" json:"model_used"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

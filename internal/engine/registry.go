// Package engine implements the per-position projection model registry,
// training procedure, and projection predictor.
package engine

import (
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/regress"
)

// PositionModel pairs one estimator with its feature scaler and the quality
// metrics recorded at training time. A PositionModel is usable for inference
// only when Performance.Trained is true.
type PositionModel struct {
	Estimator   regress.Estimator
	Scaler      *regress.StandardScaler
	Performance models.ModelPerformance
	Importance  models.FeatureImportance
}

// Usable reports whether the model may be invoked for inference
func (m *PositionModel) Usable() bool {
	return m != nil && m.Performance.Trained
}

// Registry holds one PositionModel per supported position category. It is
// built by a training run and never mutated afterwards; retraining produces
// a replacement Registry value.
type Registry struct {
	entries map[models.Position]*PositionModel
}

// NewRegistry creates a registry from trained position entries
func NewRegistry(entries map[models.Position]*PositionModel) *Registry {
	if entries == nil {
		entries = make(map[models.Position]*PositionModel)
	}
	return &Registry{entries: entries}
}

// Get returns the model for a position. The second return value is false
// when the position has no entry at all; a present entry may still be
// untrained, which callers must check via Usable.
func (r *Registry) Get(position models.Position) (*PositionModel, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.entries[position]
	return m, ok
}

// Performance returns the recorded quality metrics for every entry
func (r *Registry) Performance() map[models.Position]models.ModelPerformance {
	out := make(map[models.Position]models.ModelPerformance, len(r.entries))
	for pos, m := range r.entries {
		out[pos] = m.Performance
	}
	return out
}

// Importance returns feature importances for entries that expose them
func (r *Registry) Importance() map[models.Position]models.FeatureImportance {
	out := make(map[models.Position]models.FeatureImportance)
	for pos, m := range r.entries {
		if len(m.Importance) > 0 {
			out[pos] = m.Importance
		}
	}
	return out
}

// TrainedPositions returns the positions with a usable model, in the
// canonical position order
func (r *Registry) TrainedPositions() []models.Position {
	var trained []models.Position
	for _, pos := range models.AllPositions {
		if m, ok := r.entries[pos]; ok && m.Usable() {
			trained = append(trained, pos)
		}
	}
	return trained
}

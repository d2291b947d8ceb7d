package engine

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/models"
)

// Config holds engine settings
type Config struct {
	// ScoringFormat tags projections and rankings requests
	ScoringFormat models.ScoringFormat
	// Families assigns an estimator family per position; unset positions
	// use DefaultFamilies
	Families map[models.Position]string
	// Seed makes synthesized data and randomized estimators reproducible
	Seed int64
	// SamplesPerPosition sizes the synthesized dataset when no labeled
	// dataset is supplied
	SamplesPerPosition int
}

// Engine owns the registry snapshot and coordinates training and
// prediction. Training swaps in a fresh registry under the write lock;
// predictions read whichever snapshot is current.
type Engine struct {
	cfg     Config
	trainer *Trainer
	logger  *logrus.Logger

	mu       sync.RWMutex
	registry *Registry
}

// New creates an engine. Models are untrained until Train or EnsureTrained
// is called.
func New(cfg Config, logger *logrus.Logger) *Engine {
	if cfg.ScoringFormat == "" {
		cfg.ScoringFormat = models.ScoringPPR
	}
	if cfg.SamplesPerPosition <= 0 {
		cfg.SamplesPerPosition = DefaultSamplesPerPosition
	}

	return &Engine{
		cfg:     cfg,
		trainer: NewTrainer(cfg.Families, cfg.Seed, logger),
		logger:  logger,
	}
}

// ScoringFormat returns the engine's configured scoring format
func (e *Engine) ScoringFormat() models.ScoringFormat {
	return e.cfg.ScoringFormat
}

// IsTrained reports whether any position currently has a usable model
func (e *Engine) IsTrained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry != nil && len(e.registry.TrainedPositions()) > 0
}

// Train fits all position models from the dataset. A nil dataset is
// replaced with a synthesized one. On success the new registry atomically
// replaces the previous snapshot.
func (e *Engine) Train(ctx context.Context, dataset Dataset) (map[models.Position]models.ModelPerformance, error) {
	if dataset == nil {
		e.logger.WithFields(logrus.Fields{
			"samples_per_position": e.cfg.SamplesPerPosition,
			"scoring_format":       e.cfg.ScoringFormat,
		}).Info("No dataset supplied, synthesizing training data")
		dataset = SynthesizeDataset(e.cfg.SamplesPerPosition, e.cfg.Seed)
	}

	registry, err := e.trainer.Train(ctx, dataset)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.registry = registry
	e.mu.Unlock()

	return registry.Performance(), nil
}

// EnsureTrained trains on synthesized data if no training has run yet.
// A registry whose positions all fell below the sample threshold still
// counts as trained; retraining is an explicit Train call.
func (e *Engine) EnsureTrained(ctx context.Context) error {
	e.mu.RLock()
	hasRegistry := e.registry != nil
	e.mu.RUnlock()
	if hasRegistry {
		return nil
	}
	_, err := e.Train(ctx, nil)
	return err
}

// Predict returns an enhanced projection for one player against the
// current registry snapshot
func (e *Engine) Predict(player models.Player) models.EnhancedPlayer {
	return e.predictor().Predict(player)
}

// PredictAll enhances every player in input order
func (e *Engine) PredictAll(players []models.Player) []models.EnhancedPlayer {
	predictor := e.predictor()
	enhanced := make([]models.EnhancedPlayer, len(players))
	for i, player := range players {
		enhanced[i] = predictor.Predict(player)
	}
	return enhanced
}

// Performance returns the current snapshot's per-position quality metrics
func (e *Engine) Performance() map[models.Position]models.ModelPerformance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.registry == nil {
		return map[models.Position]models.ModelPerformance{}
	}
	return e.registry.Performance()
}

// Importance returns the current snapshot's feature importances
func (e *Engine) Importance() map[models.Position]models.FeatureImportance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.registry == nil {
		return map[models.Position]models.FeatureImportance{}
	}
	return e.registry.Importance()
}

// Registry returns the current registry snapshot for persistence
func (e *Engine) Registry() *Registry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry
}

// SetRegistry adopts a registry snapshot, typically one restored from a
// model export
func (e *Engine) SetRegistry(registry *Registry) {
	e.mu.Lock()
	e.registry = registry
	e.mu.Unlock()
}

// predictor binds a predictor to the current snapshot
func (e *Engine) predictor() *Predictor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return NewPredictor(e.registry, e.logger)
}

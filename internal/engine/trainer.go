package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/features"
	"github.com/yourusername/smart-starter/internal/logger"
	"github.com/yourusername/smart-starter/internal/metrics"
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/regress"
)

// MinTrainingSamples is the policy threshold below which a position is
// recorded as untrained rather than fitted.
const MinTrainingSamples = 10

// DefaultFamilies assigns an estimator family to each position: ensembles
// for the higher-variance positions, plain linear fits for the rest.
var DefaultFamilies = map[models.Position]string{
	models.PositionQB:  regress.FamilyRandomForest,
	models.PositionRB:  regress.FamilyGradientBoosting,
	models.PositionWR:  regress.FamilyRandomForest,
	models.PositionTE:  regress.FamilyGradientBoosting,
	models.PositionK:   regress.FamilyLinear,
	models.PositionDST: regress.FamilyLinear,
}

// Trainer fits per-position models and scalers from labeled datasets
type Trainer struct {
	families   map[models.Position]string
	minSamples int
	seed       int64
	logger     *logrus.Logger
	events     *logger.EngineLogger
}

// NewTrainer creates a trainer with the given per-position family
// assignments. Positions absent from families use DefaultFamilies.
func NewTrainer(families map[models.Position]string, seed int64, log *logrus.Logger) *Trainer {
	merged := make(map[models.Position]string, len(DefaultFamilies))
	for pos, family := range DefaultFamilies {
		merged[pos] = family
	}
	for pos, family := range families {
		merged[pos] = family
	}

	return &Trainer{
		families:   merged,
		minSamples: MinTrainingSamples,
		seed:       seed,
		logger:     log,
		events:     logger.NewEngineLogger(log),
	}
}

// Train fits every position independently and returns a new Registry.
// A position with insufficient samples or a failed fit is recorded as
// untrained; no single position's failure aborts the run.
func (t *Trainer) Train(ctx context.Context, dataset Dataset) (*Registry, error) {
	start := time.Now()
	entries := make(map[models.Position]*PositionModel, len(models.AllPositions))

	for _, position := range models.AllPositions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := dataset[position]
		if len(rows) < t.minSamples {
			t.logger.WithError(models.ErrInsufficientSamples).WithFields(logrus.Fields{
				"position": position,
				"samples":  len(rows),
			}).Warn("Insufficient data, skipping training")
			entries[position] = &PositionModel{
				Performance: models.UntrainedPerformance(len(rows)),
			}
			continue
		}

		entry, err := t.fitPosition(position, rows)
		if err != nil {
			t.logger.WithError(err).WithField("position", position).Error("Training failed")
			metrics.RecordTrainingFailure(string(position))
			entries[position] = &PositionModel{
				Performance: models.UntrainedPerformance(len(rows)),
			}
			continue
		}

		metrics.UpdateModelQuality(string(position), entry.Performance.RSquared, entry.Performance.Samples)
		t.events.LogModelTraining(
			string(position),
			entry.Estimator.Name(),
			entry.Performance.RSquared,
			entry.Performance.MSE,
			entry.Performance.Samples,
			true,
		)

		entries[position] = entry
	}

	registry := NewRegistry(entries)
	metrics.RecordTrainingRun(time.Since(start).Seconds())
	metrics.UpdateTrainedPositions(len(registry.TrainedPositions()))
	return registry, nil
}

// fitPosition fits one position's scaler and estimator and computes
// in-sample quality metrics on the training rows.
func (t *Trainer) fitPosition(position models.Position, rows []Sample) (*PositionModel, error) {
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		X[i] = row.Features
		y[i] = row.Actual
	}

	scaler := regress.NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, fmt.Errorf("scaler fit: %w", err)
	}

	family := t.families[position]
	estimator, err := regress.NewEstimator(family, t.seed)
	if err != nil {
		return nil, err
	}

	if err := estimator.Fit(scaled, y); err != nil {
		return nil, fmt.Errorf("%s fit: %w", family, err)
	}

	predicted := make([]float64, len(scaled))
	for i, row := range scaled {
		p, err := estimator.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("%s in-sample predict: %w", family, err)
		}
		predicted[i] = p
	}

	return &PositionModel{
		Estimator: estimator,
		Scaler:    scaler,
		Performance: models.ModelPerformance{
			MSE:      regress.MeanSquaredError(predicted, y),
			RSquared: regress.RSquared(predicted, y),
			Samples:  len(rows),
			Trained:  true,
		},
		Importance: importanceMap(estimator.FeatureImportances()),
	}, nil
}

// importanceMap zips importance weights with the feature vector layout
func importanceMap(weights []float64) models.FeatureImportance {
	if len(weights) != len(features.Names) {
		return nil
	}
	out := make(models.FeatureImportance, len(weights))
	for j, name := range features.Names {
		out[name] = weights[j]
	}
	return out
}

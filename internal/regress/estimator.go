// Package regress provides regression estimators and feature scaling for
// per-position projection models.
package regress

import (
	"errors"
	"fmt"
)

// Estimator family names, used for configuration and reported on predictions
const (
	FamilyRandomForest     = "random_forest"
	FamilyGradientBoosting = "gradient_boosting"
	FamilyLinear           = "linear_regression"
)

// Common errors
var (
	ErrNotFitted         = errors.New("estimator not fitted")
	ErrEmptyDataset      = errors.New("empty training dataset")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// Estimator is a regression model that learns from a matrix of feature rows
// and predicts a scalar outcome for a single feature row.
type Estimator interface {
	// Fit trains the estimator on feature rows X and outcomes y
	Fit(X [][]float64, y []float64) error

	// Predict returns the estimated outcome for a single feature row
	Predict(x []float64) (float64, error)

	// Name returns the estimator family name
	Name() string

	// FeatureImportances returns per-feature importance weights summing to 1,
	// or nil if the family does not expose importances
	FeatureImportances() []float64
}

// NewEstimator creates an estimator of the named family. The seed controls
// any randomized behavior (bootstrap sampling, feature subsets) so training
// runs are reproducible.
func NewEstimator(family string, seed int64) (Estimator, error) {
	switch family {
	case FamilyRandomForest:
		return NewRandomForest(DefaultForestTrees, seed), nil
	case FamilyGradientBoosting:
		return NewGradientBoosting(DefaultBoostingTrees, DefaultLearningRate, seed), nil
	case FamilyLinear:
		return NewLinear(), nil
	default:
		return nil, fmt.Errorf("unknown estimator family: %s", family)
	}
}

func validateDataset(X [][]float64, y []float64) error {
	if len(X) == 0 || len(y) == 0 {
		return ErrEmptyDataset
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows, %d outcomes", ErrDimensionMismatch, len(X), len(y))
	}
	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: ragged rows", ErrDimensionMismatch)
		}
	}
	return nil
}

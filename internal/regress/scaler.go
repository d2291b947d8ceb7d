package regress

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes features to zero mean and unit variance.
// It must be fitted on a position's training rows before Transform is used.
type StandardScaler struct {
	Means  []float64 `json:"means"`
	Stds   []float64 `json:"stds"`
	Fitted bool      `json:"fitted"`
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-feature means and standard deviations from X
func (s *StandardScaler) Fit(X [][]float64) error {
	if err := validateDataset(X, make([]float64, len(X))); err != nil {
		return err
	}

	width := len(X[0])
	s.Means = make([]float64, width)
	s.Stds = make([]float64, width)

	column := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i, row := range X {
			column[i] = row[j]
		}
		s.Means[j] = stat.Mean(column, nil)
		s.Stds[j] = stat.StdDev(column, nil)
		// Constant features scale to zero rather than dividing by zero
		if s.Stds[j] == 0 {
			s.Stds[j] = 1
		}
	}

	s.Fitted = true
	return nil
}

// Transform standardizes a single feature row
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if !s.Fitted {
		return nil, fmt.Errorf("scaler: %w", ErrNotFitted)
	}
	if len(x) != len(s.Means) {
		return nil, fmt.Errorf("scaler: %w: got %d features, want %d", ErrDimensionMismatch, len(x), len(s.Means))
	}

	scaled := make([]float64, len(x))
	for j, v := range x {
		scaled[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return scaled, nil
}

// FitTransform fits the scaler on X and returns all rows standardized
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}

	scaled := make([][]float64, len(X))
	for i, row := range X {
		out, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		scaled[i] = out
	}
	return scaled, nil
}

package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegressor fits an ordinary least squares model with an intercept.
// Used for low-variance positions where a plain linear fit is sufficient.
type LinearRegressor struct {
	// Coefficients holds [intercept, w1, ..., wn] after fitting
	Coefficients []float64 `json:"coefficients"`
}

// NewLinear creates an unfitted linear regressor
func NewLinear() *LinearRegressor {
	return &LinearRegressor{}
}

// Name returns the estimator family name
func (l *LinearRegressor) Name() string { return FamilyLinear }

// Fit solves the least squares problem with a bias column via QR decomposition
func (l *LinearRegressor) Fit(X [][]float64, y []float64) error {
	if err := validateDataset(X, y); err != nil {
		return err
	}

	rows := len(X)
	cols := len(X[0]) + 1 // bias column

	a := mat.NewDense(rows, cols, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}

	b := mat.NewVecDense(rows, y)
	beta := mat.NewVecDense(cols, nil)
	if err := beta.SolveVec(a, b); err != nil {
		return fmt.Errorf("least squares solve failed: %w", err)
	}

	l.Coefficients = make([]float64, cols)
	for j := 0; j < cols; j++ {
		l.Coefficients[j] = beta.AtVec(j)
	}
	return nil
}

// Predict evaluates the fitted linear model on a single feature row
func (l *LinearRegressor) Predict(x []float64) (float64, error) {
	if len(l.Coefficients) == 0 {
		return 0, fmt.Errorf("%s: %w", FamilyLinear, ErrNotFitted)
	}
	if len(x)+1 != len(l.Coefficients) {
		return 0, fmt.Errorf("%s: %w: got %d features, want %d", FamilyLinear, ErrDimensionMismatch, len(x), len(l.Coefficients)-1)
	}

	sum := l.Coefficients[0]
	for j, v := range x {
		sum += l.Coefficients[j+1] * v
	}
	return sum, nil
}

// FeatureImportances returns nil; linear models do not expose importances
func (l *LinearRegressor) FeatureImportances() []float64 { return nil }

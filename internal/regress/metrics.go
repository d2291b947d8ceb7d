package regress

import "gonum.org/v1/gonum/stat"

// MeanSquaredError returns the mean squared error between predictions and
// observed outcomes. Slices must be the same length.
func MeanSquaredError(predicted, observed []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	sum := 0.0
	for i, p := range predicted {
		d := p - observed[i]
		sum += d * d
	}
	return sum / float64(len(predicted))
}

// RSquared returns the coefficient of determination for predictions against
// observed outcomes. Can be negative when the fit is worse than the mean.
func RSquared(predicted, observed []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	return stat.RSquaredFrom(predicted, observed, nil)
}

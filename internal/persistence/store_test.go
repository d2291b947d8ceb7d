package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/smart-starter/internal/engine"
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/regress"
)

func testStoreLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fittedRegistry builds a registry with a fitted linear model for QB
// and an untrained entry for K.
func fittedRegistry(t *testing.T) *engine.Registry {
	t.Helper()

	X := [][]float64{{1, 2}, {2, 1}, {3, 4}, {4, 3}, {5, 6}, {6, 5}}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 2*row[0] + 3*row[1] + 1
	}

	scaler := &regress.StandardScaler{}
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	est := &regress.LinearRegressor{}
	require.NoError(t, est.Fit(scaled, y))

	return engine.NewRegistry(map[models.Position]*engine.PositionModel{
		models.PositionQB: {
			Estimator:   est,
			Scaler:      scaler,
			Performance: models.ModelPerformance{MSE: 0.01, RSquared: 0.99, Samples: len(X), Trained: true},
			Importance:  models.FeatureImportance{"a": 0.4, "b": 0.6},
		},
		models.PositionK: {
			Performance: models.UntrainedPerformance(3),
		},
	})
}

func TestStoreExportSkipsUntrained(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, testStoreLogger())

	exported, err := store.Export(fittedRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, 1, exported)

	_, err = os.Stat(filepath.Join(dir, "qb.json"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "k.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, testStoreLogger())

	registry := fittedRegistry(t)
	_, err := store.Export(registry)
	require.NoError(t, err)

	loaded, err := store.Load(models.PositionQB)
	require.NoError(t, err)
	require.True(t, loaded.Usable())
	assert.Equal(t, regress.FamilyLinear, loaded.Estimator.Name())
	assert.Equal(t, 0.99, loaded.Performance.RSquared)

	// Loaded model reproduces the original's predictions
	original, ok := registry.Get(models.PositionQB)
	require.True(t, ok)

	input := []float64{2.5, 3.5}
	origScaled, err := original.Scaler.Transform(input)
	require.NoError(t, err)
	loadedScaled, err := loaded.Scaler.Transform(input)
	require.NoError(t, err)

	want, err := original.Estimator.Predict(origScaled)
	require.NoError(t, err)
	got, err := loaded.Estimator.Predict(loadedScaled)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), testStoreLogger())

	_, err := store.Load(models.PositionRB)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStoreLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, testStoreLogger())

	_, err := store.Export(fittedRegistry(t))
	require.NoError(t, err)

	registry, err := store.LoadRegistry()
	require.NoError(t, err)

	trained := registry.TrainedPositions()
	require.Len(t, trained, 1)
	assert.Equal(t, models.PositionQB, trained[0])

	_, ok := registry.Get(models.PositionK)
	assert.False(t, ok)
}

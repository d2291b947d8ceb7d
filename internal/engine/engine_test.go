package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/regress"
)

type misfitModel struct {
	estimator regress.Estimator
	scaler    *regress.StandardScaler
}

// newMisfitScaler fits a model on two features so the eight-feature player
// vector fails to scale at inference time
func newMisfitScaler(t *testing.T) misfitModel {
	t.Helper()
	X := [][]float64{{1, 2}, {2, 3}, {3, 4}, {4, 5}}
	y := []float64{1, 2, 3, 4}

	est := regress.NewLinear()
	require.NoError(t, est.Fit(X, y))

	scaler := regress.NewStandardScaler()
	require.NoError(t, scaler.Fit(X))

	return misfitModel{estimator: est, scaler: scaler}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func trainedEngine(t *testing.T) *Engine {
	t.Helper()
	eng := New(Config{Seed: 42}, testLogger())
	_, err := eng.Train(context.Background(), nil)
	require.NoError(t, err)
	return eng
}

func TestTrainSynthesizedDataAllPositions(t *testing.T) {
	eng := New(Config{Seed: 42}, testLogger())

	performance, err := eng.Train(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, performance, len(models.AllPositions))

	for _, pos := range models.AllPositions {
		perf := performance[pos]
		assert.True(t, perf.Trained, "position %s should be trained", pos)
		assert.Equal(t, DefaultSamplesPerPosition, perf.Samples)
		assert.Greater(t, perf.RSquared, 0.8, "position %s should recover the synthetic signal", pos)
		assert.False(t, math.IsInf(perf.MSE, 1))
	}
}

func TestTrainInsufficientSamples(t *testing.T) {
	eng := New(Config{Seed: 42}, testLogger())

	dataset := SynthesizeDataset(DefaultSamplesPerPosition, 42)
	dataset[models.PositionK] = dataset[models.PositionK][:5]

	performance, err := eng.Train(context.Background(), dataset)
	require.NoError(t, err)

	perf := performance[models.PositionK]
	assert.False(t, perf.Trained)
	assert.True(t, math.IsInf(perf.MSE, 1))
	assert.Equal(t, 0.0, perf.RSquared)
	assert.Equal(t, 5, perf.Samples)

	// Other positions train independently of the failed one
	assert.True(t, performance[models.PositionQB].Trained)
	assert.True(t, performance[models.PositionRB].Trained)

	// Predictions for the untrained position fall back to the baseline
	enhanced := eng.Predict(models.Player{Name: "Kicker", Position: models.PositionK, BaseProjection: 7.0})
	assert.Equal(t, 7.0, enhanced.Projection)
	assert.Equal(t, 0.5, enhanced.Confidence)
	assert.Equal(t, models.ModelUsedFallback, enhanced.ModelUsed)
}

func TestPredictFallbackWithoutTraining(t *testing.T) {
	eng := New(Config{Seed: 42}, testLogger())

	enhanced := eng.Predict(models.Player{Name: "Kicker", Position: models.PositionK, BaseProjection: 7.0})

	assert.Equal(t, 7.0, enhanced.Projection)
	assert.Equal(t, 0.5, enhanced.Confidence)
	assert.Equal(t, models.ModelUsedFallback, enhanced.ModelUsed)
	assert.True(t, enhanced.IsFallback())
}

func TestPredictUnsupportedPosition(t *testing.T) {
	eng := trainedEngine(t)

	enhanced := eng.Predict(models.Player{Name: "Punter", Position: "P", BaseProjection: 3.0})

	assert.Equal(t, 3.0, enhanced.Projection)
	assert.Equal(t, models.ModelUsedFallback, enhanced.ModelUsed)
}

func TestPredictModelPath(t *testing.T) {
	eng := trainedEngine(t)

	player := models.Player{
		Name:           "Lamar Jackson",
		Team:           "BAL",
		Position:       models.PositionQB,
		BaseProjection: 23.6,
		HomeAdvantage:  0.05,
		Spread:         -7.0,
		OverUnder:      52.0,
		DefensiveRank:  15,
		RecentForm:     0.8,
		SnapShare:      1.0,
	}

	enhanced := eng.Predict(player)

	assert.Equal(t, "random_forest", enhanced.ModelUsed)
	assert.False(t, enhanced.IsFallback())
	assert.Greater(t, enhanced.Confidence, 0.8)
	// A full-strength top QB projection should land in a plausible band
	assert.InDelta(t, player.BaseProjection, enhanced.Projection, 10.0)
}

func TestPredictIdempotent(t *testing.T) {
	eng := trainedEngine(t)

	player := models.Player{Name: "Bijan Robinson", Position: models.PositionRB, BaseProjection: 21.0, RecentForm: 0.8}

	first := eng.Predict(player)
	second := eng.Predict(player)

	assert.Equal(t, first, second)
}

func TestPredictErrorFallback(t *testing.T) {
	// A scaler fitted on the wrong feature width forces an inference
	// error, which must degrade to the defensive fallback path.
	badScaler := newMisfitScaler(t)
	registry := NewRegistry(map[models.Position]*PositionModel{
		models.PositionQB: {
			Estimator:   badScaler.estimator,
			Scaler:      badScaler.scaler,
			Performance: models.ModelPerformance{Trained: true, RSquared: 0.9, Samples: 50},
		},
	})

	predictor := NewPredictor(registry, testLogger())
	enhanced := predictor.Predict(models.Player{Name: "QB", Position: models.PositionQB, BaseProjection: 20.0})

	assert.Equal(t, 20.0, enhanced.Projection)
	assert.Equal(t, 0.5, enhanced.Confidence)
	assert.Equal(t, models.ModelUsedErrorFallback, enhanced.ModelUsed)
}

func TestEnsureTrainedTrainsOnce(t *testing.T) {
	eng := New(Config{Seed: 42}, testLogger())
	require.False(t, eng.IsTrained())

	require.NoError(t, eng.EnsureTrained(context.Background()))
	require.True(t, eng.IsTrained())

	before := eng.Performance()
	require.NoError(t, eng.EnsureTrained(context.Background()))
	assert.Equal(t, before, eng.Performance())
}

func TestEnsureTrainedKeepsUntrainedSnapshot(t *testing.T) {
	eng := New(Config{Seed: 42}, testLogger())

	dataset := Dataset{models.PositionQB: SynthesizeDataset(5, 42)[models.PositionQB]}
	_, err := eng.Train(context.Background(), dataset)
	require.NoError(t, err)
	require.False(t, eng.IsTrained())

	// An all-untrained snapshot still counts as a completed training run
	require.NoError(t, eng.EnsureTrained(context.Background()))
	assert.False(t, eng.IsTrained())
}

func TestRegistryDistinguishesNotFoundFromUntrained(t *testing.T) {
	registry := NewRegistry(map[models.Position]*PositionModel{
		models.PositionK: {Performance: models.UntrainedPerformance(5)},
	})

	_, found := registry.Get(models.PositionQB)
	assert.False(t, found, "absent position is NotFound")

	model, found := registry.Get(models.PositionK)
	assert.True(t, found, "untrained position is still present")
	assert.False(t, model.Usable())
}

func TestFeatureImportanceExposedForEnsembles(t *testing.T) {
	eng := trainedEngine(t)

	importance := eng.Importance()
	require.Contains(t, importance, models.PositionQB)
	require.Contains(t, importance, models.PositionRB)
	assert.NotContains(t, importance, models.PositionK, "linear models expose no importances")

	total := 0.0
	for _, w := range importance[models.PositionQB] {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSynthesizeDatasetReproducible(t *testing.T) {
	a := SynthesizeDataset(20, 7)
	b := SynthesizeDataset(20, 7)
	assert.Equal(t, a, b)

	for _, pos := range models.AllPositions {
		require.Len(t, a[pos], 20)
		for _, row := range a[pos] {
			assert.Len(t, row.Features, 8)
			assert.GreaterOrEqual(t, row.Actual, 0.0)
		}
	}
}

// captureLogger returns a debug-level logger writing JSON entries to buf
func captureLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func decodeLogEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]interface{}
		require.NoError(t, dec.Decode(&entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestTrainEmitsTrainingEventPerPosition(t *testing.T) {
	buf := &bytes.Buffer{}
	eng := New(Config{Seed: 42}, captureLogger(buf))

	_, err := eng.Train(context.Background(), nil)
	require.NoError(t, err)

	trained := map[string]bool{}
	for _, entry := range decodeLogEntries(t, buf) {
		if entry["component"] != "engine" || entry["family"] == nil {
			continue
		}
		trained[entry["position"].(string)] = entry["trained"] == true
	}

	for _, pos := range models.AllPositions {
		assert.True(t, trained[string(pos)], "no training event for %s", pos)
	}
}

func TestTrainInsufficientSamplesLogsSentinel(t *testing.T) {
	buf := &bytes.Buffer{}
	eng := New(Config{Seed: 42}, captureLogger(buf))

	dataset := Dataset{models.PositionQB: SynthesizeDataset(5, 42)[models.PositionQB]}
	_, err := eng.Train(context.Background(), dataset)
	require.NoError(t, err)

	found := false
	for _, entry := range decodeLogEntries(t, buf) {
		if entry["error"] != models.ErrInsufficientSamples.Error() || entry["position"] != string(models.PositionQB) {
			continue
		}
		found = true
		assert.Equal(t, float64(5), entry["samples"])
	}
	assert.True(t, found, "skip branch should log the insufficient-samples sentinel")
}

func TestPredictEmitsPredictionEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	predictor := NewPredictor(nil, captureLogger(buf))

	predictor.Predict(models.Player{Name: "Blake Corum", Position: models.PositionRB, BaseProjection: 9.5})

	found := false
	for _, entry := range decodeLogEntries(t, buf) {
		if entry["player"] != "Blake Corum" {
			continue
		}
		found = true
		assert.Equal(t, "engine", entry["component"])
		assert.Equal(t, models.ModelUsedFallback, entry["model_used"])
		assert.Equal(t, 9.5, entry["projection"])
	}
	assert.True(t, found, "prediction should emit a structured event")
}

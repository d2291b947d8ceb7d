// Package metrics provides the centralized Prometheus metrics registry for the
// projection engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smart_starter",
		Name:      "predictions_total",
		Help:      "Total number of player projections produced, by model path",
	}, []string{"model_used"})
	TrainingRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smart_starter",
		Name:      "training_runs_total",
		Help:      "Total number of model training runs",
	})
	TrainingFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smart_starter",
		Name:      "training_failures_total",
		Help:      "Total number of per-position training failures",
	}, []string{"position"})
	LineupsAssembledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smart_starter",
		Name:      "lineups_assembled_total",
		Help:      "Total number of lineups assembled",
	})
	RosterFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smart_starter",
		Name:      "roster_fetch_errors_total",
		Help:      "Total number of roster data source failures",
	}, []string{"source"})
)

// Gauge metrics
var (
	ModelRSquared = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "smart_starter",
		Name:      "model_r_squared",
		Help:      "Training-fit R-squared for each position model",
	}, []string{"position"})
	ModelSampleCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "smart_starter",
		Name:      "model_sample_count",
		Help:      "Training sample count for each position model",
	}, []string{"position"})
	TrainedPositions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "smart_starter",
		Name:      "trained_positions",
		Help:      "Number of positions with a trained model",
	})
	LineupProjectedPoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "smart_starter",
		Name:      "lineup_projected_points",
		Help:      "Total projected points of the most recent lineup",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "smart_starter",
		Name:      "training_duration_seconds",
		Help:      "Duration of full training runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	AssemblyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "smart_starter",
		Name:      "lineup_assembly_duration_seconds",
		Help:      "Duration of lineup assembly in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(TrainingFailuresTotal)
		registry.MustRegister(LineupsAssembledTotal)
		registry.MustRegister(RosterFetchErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(ModelRSquared)
		registry.MustRegister(ModelSampleCount)
		registry.MustRegister(TrainedPositions)
		registry.MustRegister(LineupProjectedPoints)

		// Register histogram metrics
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(AssemblyDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a projection event by model path.
func RecordPrediction(modelUsed string) {
	PredictionsTotal.WithLabelValues(modelUsed).Inc()
}

// RecordTrainingRun records a completed training run.
func RecordTrainingRun(durationSeconds float64) {
	TrainingRunsTotal.Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordTrainingFailure records a per-position training failure.
func RecordTrainingFailure(position string) {
	TrainingFailuresTotal.WithLabelValues(position).Inc()
}

// RecordLineupAssembled records an assembled lineup and its projected total.
func RecordLineupAssembled(durationSeconds, projectedPoints float64) {
	LineupsAssembledTotal.Inc()
	AssemblyDuration.Observe(durationSeconds)
	LineupProjectedPoints.Set(projectedPoints)
}

// RecordRosterFetchError records a data source failure.
func RecordRosterFetchError(source string) {
	RosterFetchErrorsTotal.WithLabelValues(source).Inc()
}

// UpdateModelQuality updates per-position model quality gauges.
func UpdateModelQuality(position string, rSquared float64, samples int) {
	ModelRSquared.WithLabelValues(position).Set(rSquared)
	ModelSampleCount.WithLabelValues(position).Set(float64(samples))
}

// UpdateTrainedPositions updates the trained position count gauge.
func UpdateTrainedPositions(count int) {
	TrainedPositions.Set(float64(count))
}

// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for projection engine operations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogModelTraining logs a per-position model training outcome.
func (el *EngineLogger) LogModelTraining(position string, family string, rSquared float64, mse float64, samples int, trained bool) {
	el.WithFields(logrus.Fields{
		"position": position,
		"family":   family,
		"r2":       rSquared,
		"mse":      mse,
		"samples":  samples,
		"trained":  trained,
	}).Info("Position model training completed")
}

// LogPrediction logs a single projection event.
func (el *EngineLogger) LogPrediction(playerName string, position string, baseProjection float64, projection float64, modelUsed string, confidence float64) {
	el.WithFields(logrus.Fields{
		"player":     playerName,
		"position":   position,
		"base_proj":  baseProjection,
		"projection": projection,
		"model_used": modelUsed,
		"confidence": confidence,
	}).Debug("Player projection produced")
}

// LogLineupAssembly logs a completed lineup assembly.
func (el *EngineLogger) LogLineupAssembly(playersIn int, playersAssigned int, totalProjected float64, durationMs float64) {
	el.WithFields(logrus.Fields{
		"players_in":       playersIn,
		"players_assigned": playersAssigned,
		"total_projected":  totalProjected,
		"duration_ms":      durationMs,
	}).Info("Lineup assembly completed")
}

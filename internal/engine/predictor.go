package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/features"
	"github.com/yourusername/smart-starter/internal/logger"
	"github.com/yourusername/smart-starter/internal/metrics"
	"github.com/yourusername/smart-starter/internal/models"
)

// fallbackConfidence is the neutral confidence reported on fallback paths
const fallbackConfidence = 0.5

// Result is the outcome of evaluating one player against the registry.
// Fallback results carry the baseline projection and a reason in Source.
type Result struct {
	Estimate   float64
	Confidence float64
	Source     string
	Fallback   bool
}

// Predictor produces enhanced projections from an immutable registry
// snapshot. It always returns a usable estimate: a missing or untrained
// model degrades to the baseline projection, and inference errors degrade
// the same way without propagating.
type Predictor struct {
	registry *Registry
	logger   *logrus.Logger
	events   *logger.EngineLogger
}

// NewPredictor creates a predictor over a registry snapshot. A nil registry
// is valid and routes every prediction to the fallback path.
func NewPredictor(registry *Registry, log *logrus.Logger) *Predictor {
	return &Predictor{
		registry: registry,
		logger:   log,
		events:   logger.NewEngineLogger(log),
	}
}

// Predict returns the player's enhanced projection
func (p *Predictor) Predict(player models.Player) models.EnhancedPlayer {
	result := p.evaluate(player)
	metrics.RecordPrediction(result.Source)
	p.events.LogPrediction(
		player.Name,
		string(player.Position),
		player.BaseProjection,
		result.Estimate,
		result.Source,
		result.Confidence,
	)

	return models.EnhancedPlayer{
		Player:     player,
		Projection: result.Estimate,
		Confidence: result.Confidence,
		ModelUsed:  result.Source,
	}
}

// evaluate applies the three-tier decision sequence: structural fallback
// when no usable model exists, defensive fallback on inference error, and
// the model path otherwise.
func (p *Predictor) evaluate(player models.Player) Result {
	model, found := p.registry.Get(player.Position)
	if !found || !model.Usable() {
		p.logger.WithField("position", player.Position).Debug("No trained model, using base projection")
		return fallbackResult(player, models.ModelUsedFallback)
	}

	vec := features.Vector(player)

	scaled, err := model.Scaler.Transform(vec)
	if err != nil {
		p.logger.WithError(err).WithField("position", player.Position).Error("Feature scaling failed")
		return fallbackResult(player, models.ModelUsedErrorFallback)
	}

	estimate, err := model.Estimator.Predict(scaled)
	if err != nil {
		p.logger.WithError(err).WithField("position", player.Position).Error("Inference failed")
		return fallbackResult(player, models.ModelUsedErrorFallback)
	}

	return Result{
		Estimate:   estimate,
		Confidence: model.Performance.RSquared,
		Source:     model.Estimator.Name(),
	}
}

func fallbackResult(player models.Player, reason string) Result {
	return Result{
		Estimate:   player.BaseProjection,
		Confidence: fallbackConfidence,
		Source:     reason,
		Fallback:   true,
	}
}

// Package lineup assembles constrained-slot lineups from enhanced projections.
package lineup

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/engine"
	"github.com/yourusername/smart-starter/internal/logger"
	"github.com/yourusername/smart-starter/internal/metrics"
	"github.com/yourusername/smart-starter/internal/models"
)

// slotPriority maps each position to its eligible slots in fill order:
// the dedicated slot first, then FLEX for flex-eligible positions.
var slotPriority = buildSlotPriority()

func buildSlotPriority() map[models.Position][]models.Slot {
	priority := map[models.Position][]models.Slot{
		models.PositionQB: {models.SlotQB},
		models.PositionRB: {models.SlotRB},
		models.PositionWR: {models.SlotWR},
		models.PositionTE: {models.SlotTE},
	}
	for position, slots := range priority {
		if position.IsFlexEligible() {
			priority[position] = append(slots, models.SlotFlex)
		}
	}
	return priority
}

// Result is the output of one lineup assembly
type Result struct {
	Lineup          models.Lineup                                `json:"optimal_lineup"`
	TotalProjected  float64                                      `json:"total_projected_points"`
	Performance     map[models.Position]models.ModelPerformance  `json:"model_performance"`
	Importance      map[models.Position]models.FeatureImportance `json:"feature_importance"`
	EnhancedPlayers []models.EnhancedPlayer                      `json:"enhanced_players"`
}

// Assembler builds lineups from model-enhanced projections
type Assembler struct {
	engine *engine.Engine
	events *logger.EngineLogger
}

// NewAssembler creates a lineup assembler backed by the projection engine
func NewAssembler(eng *engine.Engine, log *logrus.Logger) *Assembler {
	return &Assembler{
		engine: eng,
		events: logger.NewEngineLogger(log),
	}
}

// Assemble trains the models if needed, enhances every player, and fills
// roster slots greedily in descending projection order. A player matching no
// slot with free capacity stays in the enhanced list but out of the lineup.
// The pass is single-shot and never backtracks.
func (a *Assembler) Assemble(ctx context.Context, players []models.Player) (*Result, error) {
	start := time.Now()

	if err := a.engine.EnsureTrained(ctx); err != nil {
		return nil, err
	}

	enhanced := a.engine.PredictAll(players)

	// Stable sort keeps input order for equal projections
	ranked := make([]models.EnhancedPlayer, len(enhanced))
	copy(ranked, enhanced)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Projection > ranked[j].Projection
	})

	assembled := models.NewLineup()
	assigned := 0
	for _, player := range ranked {
		for _, slot := range slotPriority[player.Position] {
			if assembled.Assign(slot, player) {
				assigned++
				break
			}
		}
	}

	result := &Result{
		Lineup:          assembled,
		TotalProjected:  assembled.TotalProjected(),
		Performance:     a.engine.Performance(),
		Importance:      a.engine.Importance(),
		EnhancedPlayers: enhanced,
	}

	elapsed := time.Since(start)
	metrics.RecordLineupAssembled(elapsed.Seconds(), result.TotalProjected)
	a.events.LogLineupAssembly(len(players), assigned, result.TotalProjected, elapsed.Seconds()*1000)

	return result, nil
}

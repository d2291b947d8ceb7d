// Package features builds fixed-order numeric feature vectors from player records.
package features

import "github.com/yourusername/smart-starter/internal/models"

// Names lists the feature vector layout in order
var Names = []string{
	"base_proj",
	"weather_impact",
	"home_advantage",
	"spread",
	"over_under",
	"def_rank",
	"recent_form",
	"snap_share",
}

// Count is the fixed length of every feature vector
const Count = 8

// Defaults applied when a contextual field is absent from the input.
// DefaultOverUnder and DefaultDefRank are league medians.
const (
	DefaultOverUnder  = 45.0
	DefaultDefRank    = 16.0
	DefaultRecentForm = 0.5
	DefaultSnapShare  = 0.7
)

// Vector converts a player into a fixed-order feature vector. Missing
// contextual fields (zero values) degrade to documented defaults; the
// conversion itself never fails.
func Vector(p models.Player) []float64 {
	overUnder := p.OverUnder
	if overUnder == 0 {
		overUnder = DefaultOverUnder
	}

	defRank := float64(p.DefensiveRank)
	if p.DefensiveRank == 0 {
		defRank = DefaultDefRank
	}

	recentForm := p.RecentForm
	if recentForm == 0 {
		recentForm = DefaultRecentForm
	}

	snapShare := p.SnapShare
	if snapShare == 0 {
		snapShare = DefaultSnapShare
	}

	return []float64{
		p.BaseProjection,
		p.WeatherImpact,
		p.HomeAdvantage,
		p.Spread,
		overUnder,
		defRank,
		recentForm,
		snapShare,
	}
}

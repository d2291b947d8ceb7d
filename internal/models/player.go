package models

// Position represents a fantasy roster position category
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// AllPositions lists every supported position category in a stable order
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// IsValid reports whether the position is one of the supported categories
func (p Position) IsValid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST:
		return true
	}
	return false
}

// IsFlexEligible reports whether the position can fill the FLEX slot
func (p Position) IsFlexEligible() bool {
	switch p {
	case PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// ScoringFormat represents a fantasy scoring format
type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "Standard"
	ScoringHalfPPR  ScoringFormat = "Half-PPR"
	ScoringPPR      ScoringFormat = "PPR"
)

// IsValid reports whether the format is one of the supported scoring formats
func (f ScoringFormat) IsValid() bool {
	switch f {
	case ScoringStandard, ScoringHalfPPR, ScoringPPR:
		return true
	}
	return false
}

// APIParam returns the lowercase query-parameter form used by ranking providers
func (f ScoringFormat) APIParam() string {
	switch f {
	case ScoringStandard:
		return "std"
	case ScoringHalfPPR:
		return "half"
	default:
		return "ppr"
	}
}

// Player represents a single player's weekly projection inputs.
// Contextual fields left at their zero value are substituted with
// league-median defaults when the feature vector is built.
type Player struct {
	Name           string   `json:"name" validate:"required"`
	Team           string   `json:"team"`
	Opponent       string   `json:"opponent"`
	Position       Position `json:"position" validate:"required"`
	BaseProjection float64  `json:"base_proj" validate:"gte=0"`

	WeatherImpact  float64 `json:"weather_impact"`  // signed multiplier, typically [-0.2, 0]
	HomeAdvantage  float64 `json:"home_advantage"`  // signed multiplier, small magnitude
	Spread         float64 `json:"spread"`          // team-relative point spread
	OverUnder      float64 `json:"over_under"`      // game total
	DefensiveRank  int     `json:"def_rank"`        // opponent defense, 1 = strongest
	RecentForm     float64 `json:"recent_form"`     // [0,1]
	SnapShare      float64 `json:"snap_share"`      // [0,1]
}

// EnhancedPlayer is a Player augmented with a model projection.
// It never mutates its source Player.
type EnhancedPlayer struct {
	Player

	Projection float64 `json:"ml_projection"`
	Confidence float64 `json:"confidence"` // [0,1], model R-squared or 0.5 for fallbacks
	ModelUsed  string  `json:"model_used"` // estimator family name or fallback reason
}

// Fallback reasons reported in EnhancedPlayer.ModelUsed
const (
	ModelUsedFallback      = "fallback"       // no trained model for the position
	ModelUsedErrorFallback = "error_fallback" // inference failed at runtime
)

// IsFallback reports whether this projection came from a fallback path
func (e *EnhancedPlayer) IsFallback() bool {
	return e.ModelUsed == ModelUsedFallback || e.ModelUsed == ModelUsedErrorFallback
}

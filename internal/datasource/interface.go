package datasource

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/yourusername/smart-starter/internal/models"
)

// RosterSource defines the interface for fetching player roster and ranking
// data from external providers.
type RosterSource interface {
	// FetchPlayers retrieves ranked players for a position and scoring format
	FetchPlayers(ctx context.Context, position models.Position, format models.ScoringFormat) ([]PlayerRanking, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// PlayerRanking represents normalized ranking data from any data source
type PlayerRanking struct {
	SourceID        string           `json:"source_id"`        // Provider's unique player ID
	Name            string           `json:"name"`             // Player's display name
	Team            string           `json:"team"`             // Team abbreviation (e.g. "BAL")
	Opponent        string           `json:"opponent"`         // Opponent abbreviation
	Position        models.Position  `json:"position"`         // Roster position category
	Rank            int              `json:"rank"`             // Provider rank within position
	ProjectedPoints *decimal.Decimal `json:"projected_points"` // Weekly point projection if available
	StartSitGrade   *string          `json:"start_sit_grade"`  // Provider start/sit grade
	InjuryStatus    *string          `json:"injury_status"`    // Injury designation if any
	SnapShare       *decimal.Decimal `json:"snap_share"`       // Snap share [0,1] if available
}

// Player converts a ranking row into an engine Player record. Missing
// projection data leaves the baseline at zero; the engine's feature
// defaults cover the remaining contextual fields.
func (r PlayerRanking) Player() models.Player {
	p := models.Player{
		Name:     r.Name,
		Team:     r.Team,
		Opponent: r.Opponent,
		Position: r.Position,
	}
	if r.ProjectedPoints != nil {
		p.BaseProjection = r.ProjectedPoints.InexactFloat64()
	}
	if r.SnapShare != nil {
		p.SnapShare = r.SnapShare.InexactFloat64()
	}
	return p
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

const dataSourceDisabledMsg = "data source is disabled"

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

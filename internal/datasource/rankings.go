package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/models"
)

// RankingsClient implements RosterSource for a weekly rankings API that
// serves consensus ranks, projections, and start/sit grades per position
// and scoring format.
type RankingsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *cache.Cache
	logger     *logrus.Logger
}

// rankingsResponse is the envelope returned by the rankings API
type rankingsResponse struct {
	Position string        `json:"position"`
	Format   string        `json:"scoring"`
	Players  []rankingsRow `json:"players"`
}

// rankingsRow represents a single ranked player from the rankings API
type rankingsRow struct {
	ID              string  `json:"player_id"`
	Name            string  `json:"player_name"`
	Team            string  `json:"player_team_id"`
	Opponent        string  `json:"player_opponent_id"`
	Rank            int     `json:"rank_ecr"`
	ProjectedPoints *string `json:"r2p_pts"`
	StartSitGrade   *string `json:"start_sit_grade"`
	InjuryStatus    *string `json:"injury_status"`
	SnapShare       *string `json:"snap_pct"`
}

// NewRankingsClient creates a new rankings API client
func NewRankingsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, cacheTTL time.Duration, logger *logrus.Logger) *RankingsClient {
	return &RankingsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		cache:      cache.New(cacheTTL, cacheTTL*2),
		logger:     logger,
	}
}

// FetchPlayers retrieves ranked players for a position and scoring format
func (c *RankingsClient) FetchPlayers(ctx context.Context, position models.Position, format models.ScoringFormat) ([]PlayerRanking, error) {
	if !c.enabled {
		return nil, NewDataSourceError("rankings_api", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	if !position.IsValid() {
		return nil, NewDataSourceError("rankings_api", ErrCodeInvalidData, fmt.Sprintf("unknown position %q", position), nil)
	}

	cacheKey := fmt.Sprintf("rankings:%s:%s", position, format)
	if cached, found := c.cache.Get(cacheKey); found {
		if rankings, ok := cached.([]PlayerRanking); ok {
			return rankings, nil
		}
	}

	url := fmt.Sprintf("%s/rankings?position=%s&scoring=%s", c.baseURL, position, format.APIParam())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError("rankings_api", ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError("rankings_api", ErrCodeNetworkError, "failed to fetch rankings", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError("rankings_api", ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("rankings_api", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError("rankings_api", ErrCodeNotFound, fmt.Sprintf("no rankings for position %s", position), nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("rankings_api", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var envelope rankingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, NewDataSourceError("rankings_api", ErrCodeInvalidData, "failed to parse response", err)
	}

	rankings := make([]PlayerRanking, 0, len(envelope.Players))
	for _, row := range envelope.Players {
		rankings = append(rankings, c.convertRow(position, row))
	}

	c.cache.Set(cacheKey, rankings, cache.DefaultExpiration)

	c.logger.WithFields(logrus.Fields{
		"source":   c.Name(),
		"position": position,
		"scoring":  format,
		"players":  len(rankings),
	}).Debug("Fetched rankings")

	return rankings, nil
}

// convertRow converts a rankings API row to a normalized PlayerRanking
func (c *RankingsClient) convertRow(position models.Position, row rankingsRow) PlayerRanking {
	r := PlayerRanking{
		SourceID:      row.ID,
		Name:          row.Name,
		Team:          NormalizeTeam(row.Team),
		Opponent:      NormalizeTeam(row.Opponent),
		Position:      position,
		Rank:          row.Rank,
		StartSitGrade: row.StartSitGrade,
		InjuryStatus:  row.InjuryStatus,
	}

	if row.ProjectedPoints != nil {
		if pts := parseDecimal(row.ProjectedPoints); pts != nil {
			r.ProjectedPoints = pts
		} else {
			c.logger.WithFields(logrus.Fields{
				"source": c.Name(),
				"player": row.Name,
				"value":  *row.ProjectedPoints,
			}).Warn("Invalid projected points value")
		}
	}

	if share := parseDecimal(row.SnapShare); share != nil {
		r.SnapShare = share
	}

	return r
}

// Name returns the data source name
func (c *RankingsClient) Name() string {
	return "rankings_api"
}

// IsEnabled returns whether this data source is enabled
func (c *RankingsClient) IsEnabled() bool {
	return c.enabled
}

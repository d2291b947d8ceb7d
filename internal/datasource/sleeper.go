package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/models"
)

const sleeperPlayerDumpKey = "sleeper:players:nfl"

// SleeperClient implements RosterSource against the Sleeper public API.
// The full player dump is large and changes slowly, so it is cached and
// filtered per position on demand.
type SleeperClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	cache      *cache.Cache
	logger     *logrus.Logger
}

// SleeperPlayer represents a player record from the Sleeper API
type SleeperPlayer struct {
	PlayerID     string   `json:"player_id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	FullName     string   `json:"full_name"`
	Team         *string  `json:"team"`
	Position     *string  `json:"position"`
	Status       *string  `json:"status"`
	InjuryStatus *string  `json:"injury_status"`
	SearchRank   *int     `json:"search_rank"`
	Active       bool     `json:"active"`
	DepthOrder   *int     `json:"depth_chart_order"`
}

// NewSleeperClient creates a new Sleeper API client
func NewSleeperClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, cacheTTL time.Duration, logger *logrus.Logger) *SleeperClient {
	if baseURL == "" {
		baseURL = "https://api.sleeper.app/v1"
	}
	return &SleeperClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		cache:      cache.New(cacheTTL, cacheTTL*2),
		logger:     logger,
	}
}

// FetchPlayers retrieves active rostered players for a position, ranked by
// Sleeper search rank. The scoring format is ignored since Sleeper rosters
// carry no projections.
func (c *SleeperClient) FetchPlayers(ctx context.Context, position models.Position, format models.ScoringFormat) ([]PlayerRanking, error) {
	if !c.enabled {
		return nil, NewDataSourceError("sleeper", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	if !position.IsValid() {
		return nil, NewDataSourceError("sleeper", ErrCodeInvalidData, fmt.Sprintf("unknown position %q", position), nil)
	}

	dump, err := c.playerDump(ctx)
	if err != nil {
		return nil, err
	}

	rankings := make([]PlayerRanking, 0, 64)
	for _, sp := range dump {
		if !sp.Active || sp.Position == nil || sp.Team == nil {
			continue
		}
		if models.Position(*sp.Position) != position {
			continue
		}

		name := sp.FullName
		if name == "" {
			name = sp.FirstName + " " + sp.LastName
		}

		r := PlayerRanking{
			SourceID:     sp.PlayerID,
			Name:         name,
			Team:         NormalizeTeam(*sp.Team),
			Position:     position,
			InjuryStatus: sp.InjuryStatus,
		}
		if sp.SearchRank != nil {
			r.Rank = *sp.SearchRank
		}
		rankings = append(rankings, r)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Rank < rankings[j].Rank
	})

	c.logger.WithFields(logrus.Fields{
		"source":   c.Name(),
		"position": position,
		"players":  len(rankings),
	}).Debug("Fetched roster players")

	return rankings, nil
}

// playerDump fetches the full NFL player map, serving from cache when fresh
func (c *SleeperClient) playerDump(ctx context.Context) (map[string]SleeperPlayer, error) {
	if cached, found := c.cache.Get(sleeperPlayerDumpKey); found {
		if dump, ok := cached.(map[string]SleeperPlayer); ok {
			return dump, nil
		}
	}

	url := fmt.Sprintf("%s/players/nfl", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError("sleeper", ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError("sleeper", ErrCodeNetworkError, "failed to fetch player dump", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("sleeper", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("sleeper", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var dump map[string]SleeperPlayer
	if err := json.NewDecoder(resp.Body).Decode(&dump); err != nil {
		return nil, NewDataSourceError("sleeper", ErrCodeInvalidData, "failed to parse player dump", err)
	}

	c.cache.Set(sleeperPlayerDumpKey, dump, cache.DefaultExpiration)

	return dump, nil
}

// Name returns the data source name
func (c *SleeperClient) Name() string {
	return "sleeper"
}

// IsEnabled returns whether this data source is enabled
func (c *SleeperClient) IsEnabled() bool {
	return c.enabled
}

// teamAliases maps legacy and full-name team identifiers to the current
// standard abbreviations.
var teamAliases = map[string]string{
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"WSH": "WAS",
	"JAX": "JAC",

	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAC",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// NormalizeTeam maps a provider team identifier to a standard abbreviation
func NormalizeTeam(team string) string {
	if alias, ok := teamAliases[team]; ok {
		return alias
	}
	return team
}

// parseDecimal parses a string to decimal.Decimal, returning nil if invalid
func parseDecimal(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/models"
)

func testClients(t *testing.T) (*RateLimitedHTTPClient, *logrus.Logger) {
	t.Helper()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 5 * time.Second

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewRateLimitedHTTPClient(cfg, nil), logger
}

const rankingsFixture = `{
	"position": "RB",
	"scoring": "ppr",
	"players": [
		{"player_id": "r1", "player_name": "Alpha Back", "player_team_id": "SF", "player_opponent_id": "SEA", "rank_ecr": 1, "r2p_pts": "18.4", "snap_pct": "0.82"},
		{"player_id": "r2", "player_name": "Beta Back", "player_team_id": "OAK", "player_opponent_id": "KC", "rank_ecr": 2, "r2p_pts": "not-a-number"},
		{"player_id": "r3", "player_name": "Gamma Back", "player_team_id": "DAL", "player_opponent_id": "NYG", "rank_ecr": 3}
	]
}`

// TestRankingsClientFetchPlayers tests parsing and normalization of rankings rows
func TestRankingsClientFetchPlayers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.URL.Query().Get("position"); got != "RB" {
			t.Errorf("Expected position=RB, got %s", got)
		}
		if got := r.URL.Query().Get("scoring"); got != "ppr" {
			t.Errorf("Expected scoring=ppr, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(rankingsFixture))
	}))
	defer server.Close()

	httpClient, logger := testClients(t)
	client := NewRankingsClient(httpClient, server.URL, "test-key", true, time.Minute, logger)

	rankings, err := client.FetchPlayers(context.Background(), models.PositionRB, models.ScoringPPR)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(rankings) != 3 {
		t.Fatalf("Expected 3 rankings, got %d", len(rankings))
	}

	first := rankings[0]
	if first.Name != "Alpha Back" || first.Rank != 1 {
		t.Errorf("Unexpected first ranking: %+v", first)
	}
	if first.ProjectedPoints == nil || !first.ProjectedPoints.Equal(decimal.RequireFromString("18.4")) {
		t.Errorf("Expected projected points 18.4, got %v", first.ProjectedPoints)
	}
	if first.SnapShare == nil || !first.SnapShare.Equal(decimal.RequireFromString("0.82")) {
		t.Errorf("Expected snap share 0.82, got %v", first.SnapShare)
	}

	// Unparseable projection is dropped, not an error
	if rankings[1].ProjectedPoints != nil {
		t.Errorf("Expected nil projection for invalid value, got %v", rankings[1].ProjectedPoints)
	}

	// Legacy team identifiers are normalized
	if rankings[1].Team != "LV" {
		t.Errorf("Expected normalized team LV, got %s", rankings[1].Team)
	}
}

// TestRankingsClientCaching tests that repeated fetches hit the cache
func TestRankingsClientCaching(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(rankingsFixture))
	}))
	defer server.Close()

	httpClient, logger := testClients(t)
	client := NewRankingsClient(httpClient, server.URL, "test-key", true, time.Minute, logger)

	for i := 0; i < 3; i++ {
		if _, err := client.FetchPlayers(context.Background(), models.PositionRB, models.ScoringPPR); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected 1 upstream request, got %d", got)
	}
}

// TestRankingsClientAuthenticationFailure tests unauthorized responses
func TestRankingsClientAuthenticationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	httpClient, logger := testClients(t)
	client := NewRankingsClient(httpClient, server.URL, "bad-key", true, time.Minute, logger)

	_, err := client.FetchPlayers(context.Background(), models.PositionWR, models.ScoringPPR)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	dsErr, ok := err.(DataSourceError)
	if !ok {
		t.Fatalf("Expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("Expected code %s, got %s", ErrCodeAuthenticationFailed, dsErr.Code)
	}
}

// TestRankingsClientDisabled tests that disabled sources refuse to fetch
func TestRankingsClientDisabled(t *testing.T) {
	httpClient, logger := testClients(t)
	client := NewRankingsClient(httpClient, "http://localhost:1", "key", false, time.Minute, logger)

	if client.IsEnabled() {
		t.Error("Expected IsEnabled to be false")
	}
	if _, err := client.FetchPlayers(context.Background(), models.PositionQB, models.ScoringPPR); err == nil {
		t.Error("Expected error for disabled source, got nil")
	}
}

const sleeperFixture = `{
	"1": {"player_id": "1", "full_name": "First QB", "team": "BUF", "position": "QB", "active": true, "search_rank": 5},
	"2": {"player_id": "2", "full_name": "Second QB", "team": "KC", "position": "QB", "active": true, "search_rank": 2},
	"3": {"player_id": "3", "full_name": "Retired QB", "position": "QB", "active": false},
	"4": {"player_id": "4", "full_name": "Some RB", "team": "SF", "position": "RB", "active": true, "search_rank": 1}
}`

// TestSleeperClientFetchPlayers tests position filtering and rank ordering
func TestSleeperClientFetchPlayers(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Path != "/players/nfl" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sleeperFixture))
	}))
	defer server.Close()

	httpClient, logger := testClients(t)
	client := NewSleeperClient(httpClient, server.URL, true, time.Minute, logger)

	players, err := client.FetchPlayers(context.Background(), models.PositionQB, models.ScoringPPR)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Inactive and off-position players are filtered, rest sorted by rank
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	if players[0].Name != "Second QB" || players[1].Name != "First QB" {
		t.Errorf("Unexpected order: %s, %s", players[0].Name, players[1].Name)
	}

	// Second fetch for a different position reuses the cached dump
	if _, err := client.FetchPlayers(context.Background(), models.PositionRB, models.ScoringPPR); err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected 1 upstream request, got %d", got)
	}
}

// TestNormalizeTeam tests team identifier normalization
func TestNormalizeTeam(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OAK", "LV"},
		{"SD", "LAC"},
		{"Baltimore Ravens", "BAL"},
		{"BAL", "BAL"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTeam(tt.input); got != tt.expected {
			t.Errorf("NormalizeTeam(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

// TestPlayerRankingConversion tests conversion to engine player records
func TestPlayerRankingConversion(t *testing.T) {
	pts := decimal.RequireFromString("21.5")
	share := decimal.RequireFromString("0.9")

	r := PlayerRanking{
		Name:            "Test Player",
		Team:            "PHI",
		Opponent:        "DAL",
		Position:        models.PositionWR,
		Rank:            4,
		ProjectedPoints: &pts,
		SnapShare:       &share,
	}

	p := r.Player()
	if p.Name != "Test Player" || p.Position != models.PositionWR {
		t.Errorf("Unexpected player: %+v", p)
	}
	if p.BaseProjection != 21.5 {
		t.Errorf("Expected base projection 21.5, got %f", p.BaseProjection)
	}
	if p.SnapShare != 0.9 {
		t.Errorf("Expected snap share 0.9, got %f", p.SnapShare)
	}

	// Missing projection leaves the baseline at zero
	empty := PlayerRanking{Name: "No Data", Position: models.PositionTE}
	if got := empty.Player().BaseProjection; got != 0 {
		t.Errorf("Expected zero baseline, got %f", got)
	}
}

func TestHTTPClientSetsDefaultUserAgent(t *testing.T) {
	var gotAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := testClients(t)
	defer client.Close()

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	resp.Body.Close()

	if got := gotAgent.Load(); got != userAgent {
		t.Errorf("Expected User-Agent %q, got %v", userAgent, got)
	}
}

package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/smart-starter/internal/lineup"
	"github.com/yourusername/smart-starter/internal/models"
)

func sampleResult() *lineup.Result {
	qb := models.EnhancedPlayer{
		Player:     models.Player{Name: "Star QB", Team: "BUF", Position: models.PositionQB},
		Projection: 22.4,
		Confidence: 0.91,
		ModelUsed:  "random_forest",
	}
	rb := models.EnhancedPlayer{
		Player:     models.Player{Name: "Backup RB", Team: "NYJ", Position: models.PositionRB, BaseProjection: 9.0},
		Projection: 9.0,
		Confidence: 0.5,
		ModelUsed:  models.ModelUsedFallback,
	}

	l := models.NewLineup()
	l.Assign(models.SlotQB, qb)
	l.Assign(models.SlotRB, rb)

	return &lineup.Result{
		Lineup:         l,
		TotalProjected: l.TotalProjected(),
		Performance: map[models.Position]models.ModelPerformance{
			models.PositionQB: {MSE: 3.1, RSquared: 0.92, Samples: 50, Trained: true},
			models.PositionRB: {Samples: 5, Trained: false},
		},
		Importance: map[models.Position]models.FeatureImportance{
			models.PositionQB: {
				"base_projection": 0.5,
				"recent_form":     0.2,
				"snap_share":      0.15,
				"over_under":      0.1,
				"spread":          0.05,
			},
		},
		EnhancedPlayers: []models.EnhancedPlayer{qb, rb},
	}
}

func TestGenerateConsoleReport(t *testing.T) {
	report := GenerateConsoleReport(sampleResult())

	for _, want := range []string{
		"Star QB",
		"Backup RB",
		"Total Projected: 31.40",
		"R²=0.920",
		"untrained (5 samples)",
		"base_projection=0.50",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected report to contain %q\nreport:\n%s", want, report)
		}
	}

	// Fallback players are marked
	if !strings.Contains(report, "[fallback] *") {
		t.Errorf("Expected fallback marker in report:\n%s", report)
	}

	// Only the top three features appear
	if strings.Contains(report, "spread=") {
		t.Errorf("Expected low-weight features to be omitted:\n%s", report)
	}
}

func TestGenerateJSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lineup.json")

	if err := GenerateJSONExport(sampleResult(), path); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if _, ok := decoded["optimal_lineup"]; !ok {
		t.Error("Expected optimal_lineup key in export")
	}
	if _, ok := decoded["total_projected_points"]; !ok {
		t.Error("Expected total_projected_points key in export")
	}
}

func TestGenerateCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineup.csv")

	if err := GenerateCSVExport(sampleResult(), path); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header, two players, total row
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d:\n%s", len(lines), string(data))
	}
	if lines[0] != "slot,name,team,position,projection,confidence,model_used" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "total,") {
		t.Errorf("Expected total row last, got: %s", lines[len(lines)-1])
	}
}

// Package reporter formats lineup results for terminal output and file
// export.
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/smart-starter/internal/lineup"
	"github.com/yourusername/smart-starter/internal/models"
)

// topImportances is how many features the console report shows per position
const topImportances = 3

// GenerateConsoleReport formats a lineup result for terminal output
func GenerateConsoleReport(result *lineup.Result) string {
	var builder strings.Builder
	builder.WriteString("Lineup Report\n")
	builder.WriteString("==============\n")

	for _, slot := range models.SlotOrder {
		players := result.Lineup[slot]
		if len(players) == 0 {
			builder.WriteString(fmt.Sprintf("%-5s (empty)\n", slot))
			continue
		}
		for _, p := range players {
			marker := ""
			if p.IsFallback() {
				marker = " *"
			}
			builder.WriteString(fmt.Sprintf("%-5s %-24s %-4s %6.2f pts  conf %.2f  [%s]%s\n",
				slot, p.Name, p.Team, p.Projection, p.Confidence, p.ModelUsed, marker))
		}
	}

	builder.WriteString(fmt.Sprintf("\nTotal Projected: %.2f\n", result.TotalProjected))

	builder.WriteString("\nModel Performance\n")
	builder.WriteString("------------------\n")
	for _, position := range models.AllPositions {
		perf, ok := result.Performance[position]
		if !ok {
			continue
		}
		if !perf.Trained {
			builder.WriteString(fmt.Sprintf("%-4s untrained (%d samples)\n", position, perf.Samples))
			continue
		}
		builder.WriteString(fmt.Sprintf("%-4s R²=%.3f  MSE=%.2f  samples=%d\n",
			position, perf.RSquared, perf.MSE, perf.Samples))
	}

	if len(result.Importance) > 0 {
		builder.WriteString("\nTop Features\n")
		builder.WriteString("-------------\n")
		for _, position := range models.AllPositions {
			importance, ok := result.Importance[position]
			if !ok {
				continue
			}
			builder.WriteString(fmt.Sprintf("%-4s %s\n", position, formatTopFeatures(importance)))
		}
	}

	return builder.String()
}

// formatTopFeatures renders the highest-weighted features of one position
func formatTopFeatures(importance models.FeatureImportance) string {
	type weighted struct {
		name   string
		weight float64
	}

	features := make([]weighted, 0, len(importance))
	for name, weight := range importance {
		features = append(features, weighted{name, weight})
	}
	sort.Slice(features, func(i, j int) bool {
		if features[i].weight != features[j].weight {
			return features[i].weight > features[j].weight
		}
		return features[i].name < features[j].name
	})

	if len(features) > topImportances {
		features = features[:topImportances]
	}

	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = fmt.Sprintf("%s=%.2f", f.name, f.weight)
	}
	return strings.Join(parts, "  ")
}

// GenerateJSONExport writes the full result as indented JSON
func GenerateJSONExport(result *lineup.Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, data, 0o644)
}

// GenerateCSVExport exports the assigned lineup for spreadsheets
func GenerateCSVExport(result *lineup.Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("slot,name,team,position,projection,confidence,model_used\n")
	for _, slot := range models.SlotOrder {
		for _, p := range result.Lineup[slot] {
			builder.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.4f,%.4f,%s\n",
				slot, p.Name, p.Team, p.Position, p.Projection, p.Confidence, p.ModelUsed))
		}
	}
	builder.WriteString(fmt.Sprintf("total,,,,%.4f,,\n", result.TotalProjected))

	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

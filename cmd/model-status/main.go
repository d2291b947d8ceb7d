package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/smart-starter/internal/config"
	"github.com/yourusername/smart-starter/internal/database"
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/persistence"
	"github.com/yourusername/smart-starter/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Check projection model status",
	Long:  `Displays exported model state and recent training run history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayStatus(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func displayStatus(ctx context.Context) {
	fmt.Println()
	fmt.Println("Projection Model Status")
	fmt.Println("========================")

	displayExportedModels()

	if cfg.Database.Enabled {
		displayTrainingHistory(ctx)
	}
}

// displayExportedModels reports per-position export state from the model
// directory
func displayExportedModels() {
	fmt.Printf("\nExported models (%s):\n", cfg.Persistence.ModelDir)

	store := persistence.NewStore(cfg.Persistence.ModelDir, logger)
	found := 0
	for _, position := range models.AllPositions {
		model, err := store.Load(position)
		if err == models.ErrNotFound {
			fmt.Printf("  %-4s (no export)\n", position)
			continue
		}
		if err != nil {
			fmt.Printf("  %-4s error: %v\n", position, err)
			continue
		}

		found++
		fmt.Printf("  %-4s %-18s R²=%.3f  MSE=%.2f  samples=%d\n",
			position,
			model.Estimator.Name(),
			model.Performance.RSquared,
			model.Performance.MSE,
			model.Performance.Samples,
		)
	}

	if found == 0 {
		fmt.Println("  No exported models found. Run the lineup command with model export enabled.")
	}
}

// displayTrainingHistory reports recent training runs from the database
func displayTrainingHistory(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		fmt.Printf("\nTraining history: database unavailable (%v)\n", err)
		return
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		fmt.Printf("\nTraining history: %v\n", err)
		return
	}

	runs, err := repos.TrainingRun.List(ctx, 5)
	if err != nil {
		fmt.Printf("\nTraining history: %v\n", err)
		return
	}

	fmt.Println("\nRecent training runs:")
	if len(runs) == 0 {
		fmt.Println("  (none)")
		return
	}

	for _, run := range runs {
		trained := 0
		for _, perf := range run.Performance {
			if perf.Trained {
				trained++
			}
		}
		fmt.Printf("  %s  %-8s  %d/%d positions trained  %s\n",
			run.CompletedAt.Format("2006-01-02 15:04"),
			run.Format,
			trained,
			len(run.Performance),
			run.ID,
		)
	}
}

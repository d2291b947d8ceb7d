// Package main provides the entry point for the lineup engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/smart-starter/internal/config"
	"github.com/yourusername/smart-starter/internal/database"
	"github.com/yourusername/smart-starter/internal/datasource"
	"github.com/yourusername/smart-starter/internal/engine"
	"github.com/yourusername/smart-starter/internal/health"
	"github.com/yourusername/smart-starter/internal/lineup"
	"github.com/yourusername/smart-starter/internal/logger"
	"github.com/yourusername/smart-starter/internal/metrics"
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/persistence"
	"github.com/yourusername/smart-starter/internal/reporter"
	"github.com/yourusername/smart-starter/internal/repository"
	"github.com/yourusername/smart-starter/internal/scheduler"
	"github.com/yourusername/smart-starter/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	playersFile string
	outputJSON  string
	outputCSV   string
	serve       bool

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&playersFile, "players", "p", "", "Path to a JSON file with candidate players")
	rootCmd.Flags().StringVar(&outputJSON, "output-json", "", "Write the full result as JSON to this path")
	rootCmd.Flags().StringVar(&outputCSV, "output-csv", "", "Write the assigned lineup as CSV to this path")
	rootCmd.Flags().BoolVar(&serve, "serve", false, "Keep running with scheduled refresh and health endpoints")
}

var rootCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Train projection models and assemble a weekly lineup",
	Long:  `Trains per-position projection models, enhances candidate players with model projections, and fills roster slots greedily by projected points.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	if cfg.IsProduction() {
		appLog.SetFormatter(&logrus.JSONFormatter{})
	}

	metrics.InitRegistry()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Smart Starter lineup engine starting")

	return nil
}

func run(ctx context.Context) error {
	eng := engine.New(engineConfig(cfg), appLog)

	var store *persistence.Store
	if cfg.Persistence.Enabled {
		store = persistence.NewStore(cfg.Persistence.ModelDir, appLog)
		if registry, err := store.LoadRegistry(); err != nil {
			appLog.WithError(err).Warn("Failed to load exported models, training fresh")
		} else if len(registry.TrainedPositions()) > 0 {
			eng.SetRegistry(registry)
			appLog.WithField("positions", len(registry.TrainedPositions())).Info("Restored models from export")
		}
	}

	startedAt := time.Now().UTC()
	if err := eng.EnsureTrained(ctx); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	rosterSvc, err := buildRosterService()
	if err != nil {
		return err
	}

	players, err := loadPlayers(ctx, rosterSvc, eng.ScoringFormat())
	if err != nil {
		return err
	}

	assembler := lineup.NewAssembler(eng, appLog)
	result, err := assembler.Assemble(ctx, players)
	if err != nil {
		return fmt.Errorf("lineup assembly failed: %w", err)
	}

	fmt.Print(reporter.GenerateConsoleReport(result))

	if outputJSON != "" {
		if err := reporter.GenerateJSONExport(result, outputJSON); err != nil {
			return fmt.Errorf("failed to write JSON export: %w", err)
		}
	}
	if outputCSV != "" {
		if err := reporter.GenerateCSVExport(result, outputCSV); err != nil {
			return fmt.Errorf("failed to write CSV export: %w", err)
		}
	}

	if cfg.Features.ModelExportEnabled && store != nil {
		if _, err := store.Export(eng.Registry()); err != nil {
			appLog.WithError(err).Error("Failed to export trained models")
		}
	}

	if cfg.Database.Enabled && cfg.Features.StoreProjectionsEnabled {
		if err := storeRun(ctx, eng, result, startedAt); err != nil {
			appLog.WithError(err).Error("Failed to store projections")
		}
	}

	if serve {
		return serveLoop(ctx, eng, rosterSvc)
	}

	return nil
}

// engineConfig converts the file configuration into engine settings
func engineConfig(cfg *config.Config) engine.Config {
	families := make(map[models.Position]string, len(cfg.Engine.PositionModels))
	for position, family := range cfg.Engine.PositionModels {
		families[models.Position(position)] = family
	}

	return engine.Config{
		ScoringFormat:      models.ScoringFormat(cfg.Engine.ScoringFormat),
		Families:           families,
		Seed:               cfg.Engine.Seed,
		SamplesPerPosition: cfg.Engine.SamplesPerPosition,
	}
}

// buildRosterService wires the configured data sources; returns nil when
// none are configured
func buildRosterService() (*service.RosterService, error) {
	if len(cfg.DataSources.Sources) == 0 {
		return nil, nil
	}

	httpClient := datasource.NewRateLimitedHTTPClient(
		datasource.HTTPClientConfigFromSettings(cfg.DataSources), nil)

	factory := datasource.NewFactory(cfg, appLog)
	sources, err := factory.NewRosterSources(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create data sources: %w", err)
	}

	return service.NewRosterService(sources, appLog), nil
}

// loadPlayers reads the candidate pool from the players file when given,
// otherwise from the configured data sources
func loadPlayers(ctx context.Context, rosterSvc *service.RosterService, format models.ScoringFormat) ([]models.Player, error) {
	if playersFile != "" {
		data, err := os.ReadFile(playersFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read players file: %w", err)
		}

		var players []models.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return nil, fmt.Errorf("failed to parse players file: %w", err)
		}
		return players, nil
	}

	if rosterSvc == nil {
		return nil, fmt.Errorf("no players file given and no data sources configured")
	}

	result, err := rosterSvc.FetchPool(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player pool: %w", err)
	}
	return result.Players, nil
}

// storeRun persists the training run and its projections
func storeRun(ctx context.Context, eng *engine.Engine, result *lineup.Result, startedAt time.Time) error {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	projStore := service.NewProjectionStore(repos, appLog)
	_, err = projStore.StoreRun(ctx, eng.ScoringFormat(), result.Performance, result.Importance, startedAt, result.EnhancedPlayers)
	return err
}

// serveLoop runs the health server and scheduled jobs until interrupted
func serveLoop(ctx context.Context, eng *engine.Engine, rosterSvc *service.RosterService) error {
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
		Logger:      appLog,
		Models:      eng,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthServer.SetReady(true)

	if cfg.Scheduler.Enabled {
		if rosterSvc == nil {
			return fmt.Errorf("scheduler requires configured data sources")
		}

		sched := scheduler.NewScheduler(rosterSvc, eng, appLog)
		if cfg.Scheduler.RosterRefresh != "" {
			if err := sched.ScheduleRosterRefresh(cfg.Scheduler.RosterRefresh, eng.ScoringFormat(), nil); err != nil {
				return err
			}
		}
		if cfg.Scheduler.ModelRetrain != "" {
			if err := sched.ScheduleRetraining(cfg.Scheduler.ModelRetrain); err != nil {
				return err
			}
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	appLog.Info("Serving, press Ctrl+C to stop")
	<-ctx.Done()
	appLog.Info("Shutting down")

	return nil
}

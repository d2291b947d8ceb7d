// Package config provides configuration management for the Smart Starter application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Engine      EngineConfig      `mapstructure:"engine" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	DataSources DataSourcesConfig `mapstructure:"data_sources"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Features    FeaturesConfig    `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig represents projection engine configuration
type EngineConfig struct {
	ScoringFormat      string            `mapstructure:"scoring_format" validate:"required,scoringformat"`
	Seed               int64             `mapstructure:"seed"`
	SamplesPerPosition int               `mapstructure:"samples_per_position" validate:"gte=0"`
	PositionModels     map[string]string `mapstructure:"position_models" validate:"positionmodels"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// DataSourcesConfig represents roster and rankings data source configuration
type DataSourcesConfig struct {
	Sources         []DataSourceConfig `mapstructure:"sources"`
	CacheTTLSeconds int                `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	RateLimit       float64            `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	TimeoutSeconds  int                `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

// PersistenceConfig represents trained model export configuration
type PersistenceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	ModelDir string `mapstructure:"model_dir"`
}

// SchedulerConfig represents scheduled refresh and retraining configuration
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RosterRefresh string `mapstructure:"roster_refresh"`
	ModelRetrain  string `mapstructure:"model_retrain"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	StoreProjectionsEnabled bool `mapstructure:"store_projections_enabled"`
	ModelExportEnabled      bool `mapstructure:"model_export_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Package config provides configuration management for the Smart Starter application.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("scoringformat", validateScoringFormat)
	_ = v.RegisterValidation("positionmodels", validatePositionModels)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateScoringFormat validates the scoring format field
func validateScoringFormat(fl validator.FieldLevel) bool {
	format := fl.Field().String()
	switch format {
	case "Standard", "Half-PPR", "PPR":
		return true
	default:
		return false
	}
}

// validatePositionModels validates the per-position estimator assignments
func validatePositionModels(fl validator.FieldLevel) bool {
	assignments, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}

	validPositions := map[string]bool{
		"QB": true, "RB": true, "WR": true, "TE": true, "K": true, "DST": true,
	}
	validFamilies := map[string]bool{
		"random_forest":     true,
		"gradient_boosting": true,
		"linear_regression": true,
	}

	for position, family := range assignments {
		if !validPositions[position] {
			return false
		}
		if !validFamilies[family] {
			return false
		}
	}
	return true
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	// Database connection details are required once the database is enabled
	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required when database is enabled")
		}
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	// Scheduler expressions are required when the scheduler is enabled
	if cfg.Scheduler.Enabled {
		if cfg.Scheduler.RosterRefresh == "" && cfg.Scheduler.ModelRetrain == "" {
			return fmt.Errorf("scheduler requires at least one cron expression")
		}
	}

	// Model export requires a target directory
	if cfg.Features.ModelExportEnabled && cfg.Persistence.ModelDir == "" {
		return fmt.Errorf("model export requires persistence.model_dir")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("field '%s' is required; ", field)
		case "environment":
			errMsg += fmt.Sprintf("field '%s' must be one of development, staging, production; ", field)
		case "loglevel":
			errMsg += fmt.Sprintf("field '%s' must be one of debug, info, warn, error; ", field)
		case "scoringformat":
			errMsg += fmt.Sprintf("field '%s' must be one of Standard, Half-PPR, PPR; ", field)
		case "positionmodels":
			errMsg += fmt.Sprintf("field '%s' contains an unknown position or estimator family; ", field)
		default:
			errMsg += fmt.Sprintf("field '%s' failed validation '%s'; ", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed: %s", errMsg)
}

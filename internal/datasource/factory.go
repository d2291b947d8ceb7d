package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/config"
)

const defaultCacheTTL = 15 * time.Minute

// Factory creates RosterSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewRosterSource creates a RosterSource from a single source configuration
func (f *Factory) NewRosterSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (RosterSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	ttl := f.cacheTTL()

	switch cfg.Name {
	case "sleeper":
		return NewSleeperClient(httpClient, cfg.BaseURL, cfg.Enabled, ttl, f.logger), nil

	case "rankings_api":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("rankings API key is required")
		}
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("rankings API base URL is required")
		}
		return NewRankingsClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, ttl, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewRosterSources creates all enabled roster sources from configuration
func (f *Factory) NewRosterSources(httpClient *RateLimitedHTTPClient) ([]RosterSource, error) {
	var sources []RosterSource

	for _, srcCfg := range f.config.DataSources.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			continue
		}

		source, err := f.NewRosterSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		f.logger.WithField("source", srcCfg.Name).Info("Created data source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}

// HTTPClientConfigFromSettings builds HTTP client configuration from the
// data source settings, falling back to defaults for unset values.
func HTTPClientConfigFromSettings(cfg config.DataSourcesConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return httpCfg
}

func (f *Factory) cacheTTL() time.Duration {
	if f.config != nil && f.config.DataSources.CacheTTLSeconds > 0 {
		return time.Duration(f.config.DataSources.CacheTTLSeconds) * time.Second
	}
	return defaultCacheTTL
}

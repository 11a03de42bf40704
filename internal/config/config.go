package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the stake ledger service.
// Environment variables are parsed from the STAKE_LEDGER_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage driver: memory, sqlite or postgres.
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/ledger.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Health monitoring
	HealthInterval  time.Duration `envconfig:"HEALTH_INTERVAL" default:"15s"`
	StartupDeadline time.Duration `envconfig:"STARTUP_DEADLINE" default:"30s"`

	// Event bus buffer for the audit consumer.
	EventBuffer int `envconfig:"EVENT_BUFFER" default:"256"`
}

// Validate checks driver selection and required settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("STAKE_LEDGER_SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("STAKE_LEDGER_POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing environment variables prefixed with
// STAKE_LEDGER_ (for example STAKE_LEDGER_HTTP_PORT).
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("STAKE_LEDGER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("postgres_dsn_present", fmt.Sprintf("%t", cfg.PostgresDSN != "")).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config for tests: memory store, standard port.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		DBDriver:        "memory",
		HealthInterval:  time.Second,
		StartupDeadline: 5 * time.Second,
		EventBuffer:     16,
	}
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

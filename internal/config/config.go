// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Counter backends accepted by COUNTER_BACKEND.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds all runtime configuration for the careers service.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	WorkableSubdomain string        `env:"WORKABLE_SUBDOMAIN" envDefault:"bask-health-1"`
	WorkableAPIToken  string        `env:"WORKABLE_API_TOKEN"`
	WorkableBaseURL   string        `env:"WORKABLE_BASE_URL"` // derived from the subdomain when empty
	WorkableTimeout   time.Duration `env:"WORKABLE_TIMEOUT" envDefault:"15s"`

	CounterBackend   string        `env:"COUNTER_BACKEND" envDefault:"redis"`
	RedisURL         string        `env:"REDIS_URL"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"careers.db"`
	IncrementTimeout time.Duration `env:"INCREMENT_TIMEOUT" envDefault:"5s"`

	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"15m"`
	HealthGRPCPort string        `env:"HEALTH_GRPC_PORT" envDefault:"9090"`
	MCPEnabled     bool          `env:"MCP_ENABLED" envDefault:"false"`
	OTelEndpoint   string        `env:"OTEL_ENDPOINT"`
}

// Load reads an optional .env file, parses environment variables and
// returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WorkableAPIToken == "" {
		return fmt.Errorf("WORKABLE_API_TOKEN is required")
	}

	c.CounterBackend = strings.ToLower(strings.TrimSpace(c.CounterBackend))
	switch c.CounterBackend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when COUNTER_BACKEND=%s", BackendRedis)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when COUNTER_BACKEND=%s", BackendPostgres)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when COUNTER_BACKEND=%s", BackendSQLite)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("COUNTER_BACKEND must be one of redis, postgres, sqlite, memory, got %q", c.CounterBackend)
	}

	if c.WorkableTimeout <= 0 {
		return fmt.Errorf("WORKABLE_TIMEOUT must be positive, got %s", c.WorkableTimeout)
	}
	if c.IncrementTimeout <= 0 {
		return fmt.Errorf("INCREMENT_TIMEOUT must be positive, got %s", c.IncrementTimeout)
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("BACKUP_INTERVAL must not be negative, got %s", c.BackupInterval)
	}

	if c.WorkableBaseURL == "" {
		c.WorkableBaseURL = fmt.Sprintf("https://%s.workable.com", c.WorkableSubdomain)
	}
	c.WorkableBaseURL = strings.TrimSuffix(c.WorkableBaseURL, "/")
	return nil
}

// BackupEnabled reports whether Redis counters should be mirrored to Postgres.
func (c *Config) BackupEnabled() bool {
	return c.CounterBackend == BackendRedis && c.DatabaseURL != "" && c.BackupInterval > 0
}

// HealthGRPCEnabled reports whether the gRPC health server should run.
func (c *Config) HealthGRPCEnabled() bool {
	return c.HealthGRPCPort != "" && c.HealthGRPCPort != "0"
}

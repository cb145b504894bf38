// Package config provides configuration structures and validation for the
// payments engine. It handles environment-based configuration for the
// processing engine, logging, and the optional snapshot store.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Each field covers
// one subsystem and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Engine      EngineConfig
	Snapshot    SnapshotConfig
	Postgres    PostgresConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// EngineConfig contains processing engine configuration
type EngineConfig struct {
	AmountPrecision int32 // Fractional digits amounts are truncated and rendered at
	Shards          int   // Client partitions processed in parallel; 1 = sequential
}

// SnapshotConfig controls the optional post-run account snapshot export
type SnapshotConfig struct {
	Enabled bool
}

// PostgresConfig contains PostgreSQL configuration for the snapshot store
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// validate checks all configuration values against their minimum
// requirements. Postgres settings are only enforced when the snapshot
// export is enabled.
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Engine config
	if c.Engine.AmountPrecision < 0 {
		validationErrors = append(validationErrors, "AMOUNT_PRECISION must not be negative")
	}
	if c.Engine.AmountPrecision > 8 {
		validationErrors = append(validationErrors, "AMOUNT_PRECISION must be at most 8")
	}
	if c.Engine.Shards <= 0 {
		validationErrors = append(validationErrors, "ENGINE_SHARDS must be greater than 0")
	}

	// Validate PostgreSQL config, needed only when snapshots are on
	if c.Snapshot.Enabled {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required when SNAPSHOT_ENABLED is true")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
		if c.Postgres.MigrationsPath == "" {
			validationErrors = append(validationErrors, "POSTGRES_MIGRATIONS_PATH is required when SNAPSHOT_ENABLED is true")
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

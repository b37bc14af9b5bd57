package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-persistence-bun"
	"github.com/google/uuid"
)

// BaseConfig holds all configuration for the sitebook process.
type BaseConfig struct {
	Persistence PersistenceConfig `json:"persistence"`
	Retention   RetentionConfig   `json:"retention"`
	Logging     LoggingConfig     `json:"logging"`
}

// PersistenceConfig implements persistence.Config interface
type PersistenceConfig struct {
	Debug          bool          `json:"debug" env:"DB_DEBUG" default:"false"`
	Driver         string        `json:"driver" env:"DB_DRIVER" default:"sqlite"`
	Server         string        `json:"server" env:"DB_SERVER" default:"file:sitebook.db?_journal_mode=WAL&cache=shared&_fk=1"`
	PingTimeout    time.Duration `json:"ping_timeout" default:"5s"`
	OtelIdentifier string        `json:"otel_identifier" default:"go-sitebook"`
}

func (c PersistenceConfig) GetDebug() bool                { return c.Debug }
func (c PersistenceConfig) GetDriver() string             { return c.Driver }
func (c PersistenceConfig) GetServer() string             { return c.Server }
func (c PersistenceConfig) GetPingTimeout() time.Duration { return c.PingTimeout }
func (c PersistenceConfig) GetOtelIdentifier() string     { return c.OtelIdentifier }

// Dialect normalizes the driver name to the migration dialect.
func (c PersistenceConfig) Dialect() string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "postgres", "postgresql", "pg", "pgx":
		return "postgres"
	default:
		return "sqlite"
	}
}

// RetentionConfig controls the audit pruning run at startup.
type RetentionConfig struct {
	Enabled    bool   `json:"enabled" env:"RETENTION_ENABLED" default:"true"`
	DaysToKeep int    `json:"days_to_keep" env:"RETENTION_DAYS" default:"90"`
	ProjectID  string `json:"project_id" env:"RETENTION_PROJECT_ID"`
}

// Project parses ProjectID. Empty means every project.
func (c RetentionConfig) Project() (uuid.UUID, error) {
	raw := strings.TrimSpace(c.ProjectID)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("config: invalid retention project id %q: %w", raw, err)
	}
	return id, nil
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Verbose bool `json:"verbose" env:"LOG_VERBOSE" default:"false"`
}

// GetPersistence returns persistence config
func (c *BaseConfig) GetPersistence() persistence.Config {
	return c.Persistence
}

// Validate implements config.Validable interface
func (c *BaseConfig) Validate() error {
	if c.Retention.DaysToKeep < 0 {
		return fmt.Errorf("config: retention days_to_keep must not be negative, got %d", c.Retention.DaysToKeep)
	}
	if _, err := c.Retention.Project(); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/cesargomez89/sparkify/internal/constants"
)

// Config holds all application configuration.
// Values come from an optional YAML file; environment variables always override it.
type Config struct {
	Database    Database `yaml:"database"`
	CatalogRoot string   `yaml:"catalog_root" env:"CATALOG_ROOT" env-default:"data/song_data"`
	EventRoot   string   `yaml:"event_root" env:"EVENT_ROOT" env-default:"data/log_data"`
	Extension   string   `yaml:"extension" env:"FILE_EXTENSION" env-default:".json"`
	BatchSize   int      `yaml:"batch_size" env:"BATCH_SIZE" env-default:"1"`
	LogLevel    string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string   `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
}

// Database holds the connection target. Host, Port, User, Password, SSLMode
// and MaintenanceName apply to PostgreSQL; Path applies to SQLite.
type Database struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER" env-default:"pgx"`
	Host            string `yaml:"host" env:"PGHOST" env-default:"127.0.0.1"`
	Port            int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	Name            string `yaml:"name" env:"PGDATABASE" env-default:"sparkifydb"`
	MaintenanceName string `yaml:"maintenance_name" env:"PGMAINTDB" env-default:"postgres"` // connected to while Name is dropped and created
	User            string `yaml:"user" env:"PGUSER" env-default:"student"`
	Password        string `yaml:"-" env:"PGPASSWORD" env-default:"student"` // Secret - not in YAML
	SSLMode         string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	Path            string `yaml:"path" env:"SQLITE_PATH" env-default:"sparkify.db"`
}

// Load reads configuration from path (when non-empty) with environment overrides,
// or from the environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	errors = append(errors, c.Database.validate()...)

	if c.CatalogRoot == "" {
		errors = append(errors, "CATALOG_ROOT cannot be empty")
	}
	if c.EventRoot == "" {
		errors = append(errors, "EVENT_ROOT cannot be empty")
	}

	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		errors = append(errors, fmt.Sprintf("FILE_EXTENSION must look like .json, got: %q", c.Extension))
	}

	if c.BatchSize < 1 || c.BatchSize > constants.MaxBatchSize {
		errors = append(errors, fmt.Sprintf("BATCH_SIZE must be between 1 and %d, got: %d", constants.MaxBatchSize, c.BatchSize))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (d *Database) validate() []string {
	var errors []string
	switch d.Driver {
	case constants.DriverPostgres:
		if d.Host == "" {
			errors = append(errors, "PGHOST cannot be empty")
		}
		if d.Port < 1 || d.Port > 65535 {
			errors = append(errors, fmt.Sprintf("PGPORT must be between 1 and 65535, got: %d", d.Port))
		}
		if !isIdentifier(d.Name) {
			errors = append(errors, fmt.Sprintf("PGDATABASE must be a plain identifier, got: %q", d.Name))
		}
		if d.MaintenanceName == "" {
			errors = append(errors, "PGMAINTDB cannot be empty")
		} else if d.MaintenanceName == d.Name {
			errors = append(errors, fmt.Sprintf("PGMAINTDB must differ from PGDATABASE, got: %q", d.MaintenanceName))
		}
		if d.User == "" {
			errors = append(errors, "PGUSER cannot be empty")
		}
	case constants.DriverSQLite:
		if d.Path == "" {
			errors = append(errors, "SQLITE_PATH cannot be empty")
		}
	default:
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: %s, %s, got: %q",
			constants.DriverPostgres, constants.DriverSQLite, d.Driver))
	}
	return errors
}

// DSN returns the driver-specific connection string for the configured database.
func (d *Database) DSN() string {
	return d.DSNFor(d.Name)
}

// DSNFor returns the connection string for another database on the same server.
// PostgreSQL targets get a postgres:// URL so credentials need no quoting.
// For SQLite the name is ignored.
func (d *Database) DSNFor(name string) string {
	if d.Driver == constants.DriverSQLite {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// MaintenanceDSN returns the connection string for the maintenance database.
func (d *Database) MaintenanceDSN() string {
	return d.DSNFor(d.MaintenanceName)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/sparkify/internal/config"
	"github.com/cesargomez89/sparkify/internal/constants"
)

// RecreateDatabase drops the configured database and creates it empty.
// PostgreSQL is reached through the maintenance database; for SQLite the
// file is removed.
func RecreateDatabase(ctx context.Context, cfg config.Database) error {
	switch cfg.Driver {
	case constants.DriverSQLite:
		return recreateSQLite(cfg.Path)
	case constants.DriverPostgres:
		return recreatePostgres(ctx, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func recreateSQLite(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}

func recreatePostgres(ctx context.Context, cfg config.Database) error {
	admin, err := sqlx.Open(constants.DriverPostgres, cfg.MaintenanceDSN())
	if err != nil {
		return fmt.Errorf("failed to open maintenance db: %w", err)
	}
	defer admin.Close()
	admin.SetMaxOpenConns(1)

	if err := admin.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping maintenance db: %w", err)
	}

	name := pgx.Identifier{cfg.Name}.Sanitize()
	if _, err := admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", cfg.Name, err)
	}
	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name+" WITH ENCODING 'utf8' TEMPLATE template0"); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}
	return nil
}

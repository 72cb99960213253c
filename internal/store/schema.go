package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/sparkify/internal/constants"
)

type dialect struct {
	driver  string
	pragmas []string
	create  []string
}

// Tables in drop order. Creation runs in reverse so referenced tables exist first.
var dropOrder = []string{
	constants.SongplaysTable,
	constants.UsersTable,
	constants.SongsTable,
	constants.ArtistsTable,
	constants.TimeTable,
}

var sqliteDialect = &dialect{
	driver: constants.DriverSQLite,
	pragmas: []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=30000",
	},
	create: []string{
		`CREATE TABLE IF NOT EXISTS time (
	start_time INTEGER PRIMARY KEY,
	hour INTEGER NOT NULL,
	day INTEGER NOT NULL,
	week INTEGER NOT NULL,
	month INTEGER NOT NULL,
	year INTEGER NOT NULL,
	weekday INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS artists (
	artist_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	location TEXT,
	latitude REAL,
	longitude REAL
)`,
		`CREATE TABLE IF NOT EXISTS songs (
	song_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	duration REAL NOT NULL,
	FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
)`,
		`CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	gender TEXT,
	level TEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS songplays (
	songplay_id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_time INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	level TEXT NOT NULL,
	song_id TEXT,
	artist_id TEXT,
	session_id INTEGER NOT NULL,
	location TEXT,
	user_agent TEXT,
	UNIQUE (start_time, user_id, session_id),
	FOREIGN KEY (start_time) REFERENCES time(start_time),
	FOREIGN KEY (user_id) REFERENCES users(user_id),
	FOREIGN KEY (song_id) REFERENCES songs(song_id),
	FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
)`,
	},
}

var postgresDialect = &dialect{
	driver: constants.DriverPostgres,
	create: []string{
		`CREATE TABLE IF NOT EXISTS time (
	start_time BIGINT PRIMARY KEY,
	hour INT NOT NULL,
	day INT NOT NULL,
	week INT NOT NULL,
	month INT NOT NULL,
	year INT NOT NULL,
	weekday INT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS artists (
	artist_id VARCHAR PRIMARY KEY,
	name VARCHAR NOT NULL,
	location VARCHAR,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
)`,
		`CREATE TABLE IF NOT EXISTS songs (
	song_id VARCHAR PRIMARY KEY,
	title VARCHAR NOT NULL,
	artist_id VARCHAR NOT NULL REFERENCES artists(artist_id),
	year INT NOT NULL,
	duration DOUBLE PRECISION NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY,
	first_name VARCHAR NOT NULL,
	last_name VARCHAR NOT NULL,
	gender VARCHAR,
	level VARCHAR NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS songplays (
	songplay_id BIGSERIAL PRIMARY KEY,
	start_time BIGINT NOT NULL REFERENCES time(start_time),
	user_id BIGINT NOT NULL REFERENCES users(user_id),
	level VARCHAR NOT NULL,
	song_id VARCHAR REFERENCES songs(song_id),
	artist_id VARCHAR REFERENCES artists(artist_id),
	session_id BIGINT NOT NULL,
	location VARCHAR,
	user_agent VARCHAR,
	UNIQUE (start_time, user_id, session_id)
)`,
	},
}

func dialectFor(driver string) (*dialect, error) {
	switch driver {
	case constants.DriverSQLite:
		return sqliteDialect, nil
	case constants.DriverPostgres:
		return postgresDialect, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Reset drops the five tables if present and creates them empty.
// Every statement runs on its own and is committed before the next.
func (db *DB) Reset(ctx context.Context) error {
	if err := db.DropTables(ctx); err != nil {
		return err
	}
	return db.CreateTables(ctx)
}

func (db *DB) DropTables(ctx context.Context) error {
	for _, table := range dropOrder {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

func (db *DB) CreateTables(ctx context.Context) error {
	for i, stmt := range db.dialect.create {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s: %w", dropOrder[len(dropOrder)-1-i], err)
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/sparkify/internal/constants"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

func init() {
	sqlx.BindDriver(constants.DriverSQLite, sqlx.QUESTION)
}

// dbOps is the part of sqlx shared by *sqlx.DB and *sqlx.Tx
type dbOps interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	Rebind(query string) string
}

// DB is the single connection the pipeline works through. Inside RunInTx
// the same type is bound to the open transaction.
type DB struct {
	dbOps
	root    *sqlx.DB
	dialect *dialect
	inTx    bool
}

// Open connects to driver/dsn and verifies the connection.
// Exactly one connection is ever opened.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	for _, pragma := range d.pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &DB{dbOps: db, root: db, dialect: d}, nil
}

// NewSQLiteDB opens a SQLite database at path
func NewSQLiteDB(ctx context.Context, path string) (*DB, error) {
	return Open(ctx, constants.DriverSQLite, path)
}

// Dialect returns the driver name the database was opened with
func (db *DB) Dialect() string {
	return db.dialect.driver
}

func (db *DB) Close() error {
	return db.root.Close()
}

// RunInTx runs fn inside a transaction that commits when fn returns nil
// and rolls back otherwise. Nested calls join the enclosing transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(txDB *DB) error) error {
	if db.inTx {
		return fn(db)
	}

	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDB := &DB{
		dbOps:   tx,
		root:    db.root,
		dialect: db.dialect,
		inTx:    true,
	}

	if err := fn(txDB); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

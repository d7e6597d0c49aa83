// Package database handles connections, migrations and repositories for
// the SQLite and PostgreSQL storage backends.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/tarea-pm/tarea/internal/config"
)

// DB wraps sql.DB with the engine it was opened against so queries can be
// rebound to the engine's placeholder syntax.
type DB struct {
	*sql.DB
	engine string
}

// Engine returns the configured database engine (sqlite or postgres)
func (d *DB) Engine() string {
	return d.engine
}

// Open connects to the configured database, applies engine pragmas and
// runs migrations.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	driver, dsn := cfg.DSN()

	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{DB: sqlDB, engine: cfg.Database.Engine}

	if db.engine == config.EngineSQLite {
		if err := applySQLitePragmas(ctx, db); err != nil {
			closeOnError(db)
			return nil, err
		}
		// SQLite benefits from a single writer connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		closeOnError(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		closeOnError(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func applySQLitePragmas(ctx context.Context, db *DB) error {
	pragmas := []string{
		// Foreign key constraints (required for CASCADE deletions)
		"PRAGMA foreign_keys = ON",
		// WAL mode for better concurrency
		"PRAGMA journal_mode = WAL",
		// SQLite will retry for this duration when the db is locked
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return nil
}

func closeOnError(db *DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}

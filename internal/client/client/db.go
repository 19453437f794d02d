package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/client/migrations"
	"github.com/dmitrijs2005/dailyquote/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const memoryDB = ":memory:"

// migrateUp is swapped out in tests.
var migrateUp = func(ctx context.Context, db *sql.DB) ([]*goose.MigrationResult, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return nil, err
	}
	return p.Up(ctx)
}

// RunMigrations brings the cache schema up to date. Already applied
// versions are skipped.
func RunMigrations(ctx context.Context, db *sql.DB) (int, error) {
	applied, err := migrateUp(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("migrate cache: %w", err)
	}
	return len(applied), nil
}

// InitDatabase opens the SQLite cache at path, creating its directory
// and schema as needed. ":memory:" gives a private in-memory cache.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != memoryDB {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// One connection: an in-memory database lives and dies with it, and
	// SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

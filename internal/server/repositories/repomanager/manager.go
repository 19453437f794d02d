// Package repomanager hands out repositories bound to a handle, so services
// can use the same repository types on a *sql.DB or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/migrations"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/tables"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RepositoryManager hands out repositories bound to a connection or a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tables(db dbx.DBTX) tables.Repository
	Uploads(db dbx.DBTX) uploads.Repository
}

// PostgresRepositoryManager builds the Postgres repositories and owns the
// embedded migrations.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager returns the Postgres manager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns the users repository bound to db.
func (*PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// Tables returns the generic table repository bound to db.
func (*PostgresRepositoryManager) Tables(db dbx.DBTX) tables.Repository {
	return tables.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) Uploads(db dbx.DBTX) uploads.Repository {
	return uploads.NewPostgresRepository(db)
}

// migrateUp is swapped out in tests.
var migrateUp = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// RunMigrations applies the embedded schema: accounts, tokens, the quote
// tables and uploads.
func (*PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrateUp(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

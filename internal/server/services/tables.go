package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// TableService runs the generic select/insert/delete calls of the Tables
// API. Access rules live in the tables repository.
type TableService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTableService serves the whitelisted tables of db.
func NewTableService(db *sql.DB, m repomanager.RepositoryManager) *TableService {
	return &TableService{db: db, repomanager: m}
}

// Select runs q as userID.
func (s *TableService) Select(ctx context.Context, userID string, q wire.Query) ([]wire.Row, error) {
	return s.repomanager.Tables(s.db).Select(ctx, q, userID)
}

// Insert stores all rows or none.
func (s *TableService) Insert(ctx context.Context, userID, table string, rows []wire.Row) ([]wire.Row, error) {
	var out []wire.Row
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out, err = s.repomanager.Tables(tx).Insert(ctx, table, rows, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes userID's rows of table matching filters.
func (s *TableService) Delete(ctx context.Context, userID, table string, filters []wire.Filter) (int64, error) {
	return s.repomanager.Tables(s.db).Delete(ctx, table, filters, userID)
}

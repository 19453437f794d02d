package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableService_SelectPassesCaller(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewTableService(db, rm)

	rows, err := s.Select(context.Background(), "u1", wire.Query{Table: common.TableQuotes})
	require.NoError(t, err)
	assert.Equal(t, common.TableQuotes, rows[0]["table"])
	assert.Equal(t, "u1", rm.tb.selectUser)
}

func TestTableService_InsertCommits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewTableService(db, rm)

	rows, err := s.Insert(context.Background(), "u1", common.TableUserFavorites, []wire.Row{{"text": "a", "author": "A"}})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "u1", rm.tb.insertUser)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableService_InsertRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.tb.insertErr = errors.New("boom")
	s := NewTableService(db, rm)

	_, err := s.Insert(context.Background(), "u1", common.TableCollections, []wire.Row{{"name": "x"}})
	require.EqualError(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableService_Delete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewTableService(db, rm)

	n, err := s.Delete(context.Background(), "u1", common.TableCollections, []wire.Filter{wire.Eq("id", 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

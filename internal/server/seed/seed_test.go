package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotes_CatalogueShape(t *testing.T) {
	quotes, err := Quotes()
	require.NoError(t, err)
	require.Len(t, quotes, 100)

	perCategory := map[string]int{}
	for _, q := range quotes {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Author)
		perCategory[q.Category]++
	}
	assert.Equal(t, map[string]int{"Motivation": 20, "Love": 20, "Success": 20, "Wisdom": 20, "Humor": 20}, perCategory)
}

func TestSeed_EmptyTable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT(*) FROM quotes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := 0; i < 100; i++ {
		mock.ExpectExec(`INSERT INTO quotes (text, author, category) VALUES ($1, $2, $3)`).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_AlreadySeeded(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT(*) FROM quotes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectCommit()

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeed_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT(*) FROM quotes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO quotes (text, author, category) VALUES ($1, $2, $3)`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err = Seed(context.Background(), db)
	require.ErrorContains(t, err, "db down")
	require.NoError(t, mock.ExpectationsWereMet())
}

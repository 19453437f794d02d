package uploads

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectExec(insertUpload).WithArgs("u1/a.png", "u1", "pending").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertUpload).WithArgs("u1/b.png", "u1", "completed").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertUpload).WillReturnError(assert.AnError)

	up := &models.Upload{StorageKey: "u1/a.png", UserID: "u1"}
	require.NoError(t, r.Create(context.Background(), up))
	assert.Equal(t, models.UploadStatusPending, up.Status)

	done := &models.Upload{StorageKey: "u1/b.png", UserID: "u1", Status: models.UploadStatusCompleted}
	require.NoError(t, r.Create(context.Background(), done))

	err := r.Create(context.Background(), &models.Upload{StorageKey: "u1/c.png", UserID: "u1"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "record upload u1/c.png")
}

func TestGetByKey(t *testing.T) {
	r, mock := newRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(selectUpload).WithArgs("u1/a.png").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key", "user_id", "upload_status", "created_at"}).
			AddRow("u1/a.png", "u1", "pending", created))
	mock.ExpectQuery(selectUpload).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(selectUpload).WithArgs("u1/x.png").WillReturnError(assert.AnError)

	got, err := r.GetByKey(context.Background(), "u1/a.png")
	require.NoError(t, err)
	assert.Equal(t, &models.Upload{StorageKey: "u1/a.png", UserID: "u1", Status: "pending", CreatedAt: created}, got)

	_, err = r.GetByKey(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.GetByKey(context.Background(), "u1/x.png")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestMarkUploaded(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*sqlmock.ExpectedExec)
		check func(t *testing.T, err error)
	}{
		{"one row", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) },
			func(t *testing.T, err error) { assert.NoError(t, err) }},
		{"unknown key", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			func(t *testing.T, err error) { assert.Equal(t, common.ErrNotFound, err) }},
		{"driver error", func(e *sqlmock.ExpectedExec) { e.WillReturnError(assert.AnError) },
			func(t *testing.T, err error) {
				assert.ErrorIs(t, err, assert.AnError)
				assert.ErrorContains(t, err, "complete upload u1/a.png")
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newRepo(t)
			tt.setup(mock.ExpectExec(markUploaded).WithArgs("u1/a.png", "completed"))
			tt.check(t, r.MarkUploaded(context.Background(), "u1/a.png"))
		})
	}
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/config"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/tables"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/users"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.S3PublicBaseURL = "http://cdn.local"
	return cfg
}

type fakeUsers struct {
	byID        map[string]*models.User
	createErr   error
	getErr      error
	prefs       *models.Preferences
	lastUpdate  models.ProfileUpdate
	newPassword []byte
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = "u-new"
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	f.lastUpdate = upd
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id string, hash, salt []byte) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash, u.Salt = hash, salt
	f.newPassword = hash
	return nil
}

func (f *fakeUsers) GetPreferences(context.Context, string) (*models.Preferences, error) {
	if f.prefs == nil {
		return &models.Preferences{}, nil
	}
	return f.prefs, nil
}

func (f *fakeUsers) UpdatePreferences(_ context.Context, _ string, p models.Preferences) (*models.Preferences, error) {
	f.prefs = &p
	return &p, nil
}

type fakeTokens struct {
	rows      map[string]models.RefreshToken
	createErr error
	deleteErr error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: map[string]models.RefreshToken{}}
}

func (f *fakeTokens) Create(_ context.Context, userID, token string, kind models.TokenKind, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[token] = models.RefreshToken{UserID: userID, Token: token, Kind: kind, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeTokens) Find(_ context.Context, token string, kind models.TokenKind) (*models.RefreshToken, error) {
	rt, ok := f.rows[token]
	if !ok || rt.Kind != kind {
		return nil, common.ErrNotFound
	}
	return &rt, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, token)
	return nil
}

func (f *fakeTokens) DeleteByUser(_ context.Context, userID string, kind models.TokenKind) error {
	for k, v := range f.rows {
		if v.UserID == userID && v.Kind == kind {
			delete(f.rows, k)
		}
	}
	return nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for k, v := range f.rows {
		if v.Expires.Before(cutoff) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokens) ofKind(kind models.TokenKind) []models.RefreshToken {
	var out []models.RefreshToken
	for _, v := range f.rows {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

type fakeUploads struct {
	rows map[string]*models.Upload
}

func (f *fakeUploads) Create(_ context.Context, u *models.Upload) error {
	if f.rows == nil {
		f.rows = map[string]*models.Upload{}
	}
	if u.Status == "" {
		u.Status = models.UploadStatusPending
	}
	f.rows[u.StorageKey] = u
	return nil
}

func (f *fakeUploads) GetByKey(_ context.Context, key string) (*models.Upload, error) {
	u, ok := f.rows[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUploads) MarkUploaded(_ context.Context, key string) error {
	u, ok := f.rows[key]
	if !ok {
		return common.ErrNotFound
	}
	u.Status = models.UploadStatusCompleted
	return nil
}

type fakeTables struct {
	tables.Repository
	selectUser string
	insertUser string
	inserted   []wire.Row
	insertErr  error
}

func (f *fakeTables) Select(_ context.Context, q wire.Query, userID string) ([]wire.Row, error) {
	f.selectUser = userID
	return []wire.Row{{"table": q.Table}}, nil
}

func (f *fakeTables) Insert(_ context.Context, _ string, rows []wire.Row, userID string) ([]wire.Row, error) {
	f.insertUser = userID
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, rows...)
	return rows, nil
}

type fakeRepoManager struct {
	u  *fakeUsers
	r  *fakeTokens
	up *fakeUploads
	tb *fakeTables
}

func newFakeRepoManager(us ...*models.User) *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsers(us...), r: newFakeTokens(), up: &fakeUploads{}, tb: &fakeTables{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.r
}
func (m *fakeRepoManager) Tables(dbx.DBTX) tables.Repository   { return m.tb }
func (m *fakeRepoManager) Uploads(dbx.DBTX) uploads.Repository { return m.up }

type recordingMailer struct {
	email, link string
}

func (m *recordingMailer) SendRecoveryLink(_ context.Context, email, link string) error {
	m.email, m.link = email, link
	return nil
}

func (f *fakeTables) Delete(_ context.Context, _ string, filters []wire.Filter, userID string) (int64, error) {
	f.selectUser = userID
	return int64(len(filters)), nil
}

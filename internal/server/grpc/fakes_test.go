package grpc

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/services"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUserService struct {
	UserService
	signInErr   error
	lastUserID  string
	lastUpdate  models.ProfileUpdate
	lastPw      *string
	recoveredTo string
}

func (f *fakeUserService) SignIn(_ context.Context, email, password string) (*services.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &services.Session{
		TokenPair: services.TokenPair{AccessToken: "a", RefreshToken: "r"},
		User:      &models.User{ID: "u1", Email: email},
	}, nil
}

func (f *fakeUserService) GetUser(_ context.Context, userID string) (*models.User, error) {
	f.lastUserID = userID
	return &models.User{ID: userID, Email: "ann@example.com", FullName: "Ann"}, nil
}

func (f *fakeUserService) UpdateUser(_ context.Context, userID string, upd models.ProfileUpdate, pw *string) (*models.User, error) {
	f.lastUserID, f.lastUpdate, f.lastPw = userID, upd, pw
	u := &models.User{ID: userID}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	return u, nil
}

func (f *fakeUserService) RequestRecovery(_ context.Context, email string) error {
	f.recoveredTo = email
	return nil
}

func (f *fakeUserService) UpdatePreferences(_ context.Context, userID string, p models.Preferences) (*models.Preferences, error) {
	if p.Theme != nil && *p.Theme == "neon" {
		return nil, common.NewValidationError("theme", "must be one of: system light dark")
	}
	return &p, nil
}

type fakeTableService struct {
	lastUser  string
	lastQuery wire.Query
	insertErr error
}

func (f *fakeTableService) Select(_ context.Context, userID string, q wire.Query) ([]wire.Row, error) {
	f.lastUser, f.lastQuery = userID, q
	return []wire.Row{{"id": int64(1), "text": "t", "author": "a", "category": "Love"}}, nil
}

func (f *fakeTableService) Insert(_ context.Context, userID, _ string, rows []wire.Row) ([]wire.Row, error) {
	f.lastUser = userID
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return rows, nil
}

func (f *fakeTableService) Delete(_ context.Context, userID, _ string, filters []wire.Filter) (int64, error) {
	f.lastUser = userID
	return int64(len(filters)), nil
}

type fakeStorageService struct{}

func (fakeStorageService) CreateAvatarUpload(_ context.Context, userID, contentType string) (*services.Upload, error) {
	if contentType != "image/png" {
		return nil, common.NewValidationError("content_type", "unsupported")
	}
	return &services.Upload{UploadURL: "http://s3/put", PublicURL: "http://cdn/avatars/" + userID + "/x.png", Key: userID + "/x.png"}, nil
}

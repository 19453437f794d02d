package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/stretchr/testify/require"
)

var nopLogger = logging.Discard()

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func openStore(t *testing.T) *favorites.Store {
	t.Helper()
	s, err := favorites.OpenStore(context.Background(), setupDB(t))
	require.NoError(t, err)
	return s
}

type fakeUsers struct{ id string }

func (f fakeUsers) CurrentUserID() (string, bool) { return f.id, f.id != "" }

type fakeCloudFavorites struct {
	mu        sync.Mutex
	favs      []models.CloudFavorite
	listErr   error
	writeErr  error
	listCalls int
	added     []string
	removed   []string
	users     []string
}

func (f *fakeCloudFavorites) List(_ context.Context, userID string) ([]models.CloudFavorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.users = append(f.users, userID)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.CloudFavorite(nil), f.favs...), nil
}

func (f *fakeCloudFavorites) Add(_ context.Context, userID, text, author string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.added = append(f.added, text)
	return nil
}

func (f *fakeCloudFavorites) Remove(_ context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.removed = append(f.removed, text)
	return nil
}

// fakeAccount is an in-memory client.Auth + client.ObjectStore.
type fakeAccount struct {
	mu        sync.Mutex
	session   *models.Session
	listeners []func(*models.Session)

	err        error
	signOutErr error
	calls      []string

	lastUpdate  models.UserUpdate
	recoveredTo string
	verified    string
	uploadedCT  string
	cloudPrefs  *models.CloudPreferences
	pushed      []models.CloudPreferences
}

var _ Account = (*fakeAccount)(nil)

func (f *fakeAccount) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAccount) signIn(email string) *models.Session {
	sess := &models.Session{AccessToken: "at", RefreshToken: "rt", User: models.User{ID: "u-" + email, Email: email}}
	f.SetSession(sess)
	return sess
}

func (f *fakeAccount) SignUp(_ context.Context, email, _, fullName string) (*models.Session, error) {
	if err := f.record("SignUp"); err != nil {
		return nil, err
	}
	sess := f.signIn(email)
	sess.User.FullName = fullName
	return sess, nil
}

func (f *fakeAccount) SignIn(_ context.Context, email, _ string) (*models.Session, error) {
	if err := f.record("SignIn"); err != nil {
		return nil, err
	}
	return f.signIn(email), nil
}

func (f *fakeAccount) SignOut(context.Context) error {
	_ = f.record("SignOut")
	f.SetSession(nil)
	return f.signOutErr
}

func (f *fakeAccount) GetUser(context.Context) (*models.User, error) {
	if err := f.record("GetUser"); err != nil {
		return nil, err
	}
	u := f.Session().User
	u.FullName = "From Server"
	return &u, nil
}

func (f *fakeAccount) UpdateUser(_ context.Context, upd models.UserUpdate) (*models.User, error) {
	if err := f.record("UpdateUser"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUpdate = upd
	f.mu.Unlock()
	sess := f.Session()
	if upd.AvatarURL != nil {
		sess.User.AvatarURL = *upd.AvatarURL
	}
	if upd.FullName != nil {
		sess.User.FullName = *upd.FullName
	}
	f.SetSession(sess)
	return &sess.User, nil
}

func (f *fakeAccount) RecoverPassword(_ context.Context, email string) error {
	if err := f.record("RecoverPassword"); err != nil {
		return err
	}
	f.recoveredTo = email
	return nil
}

func (f *fakeAccount) VerifyRecovery(_ context.Context, token string) (*models.Session, error) {
	if err := f.record("VerifyRecovery"); err != nil {
		return nil, err
	}
	f.verified = token
	return f.signIn("recovered@example.com"), nil
}

func (f *fakeAccount) GetPreferences(context.Context) (*models.CloudPreferences, error) {
	if err := f.record("GetPreferences"); err != nil {
		return nil, err
	}
	return f.cloudPrefs, nil
}

func (f *fakeAccount) UpdatePreferences(_ context.Context, p models.CloudPreferences) error {
	if err := f.record("UpdatePreferences"); err != nil {
		return err
	}
	f.pushed = append(f.pushed, p)
	return nil
}

func (f *fakeAccount) UploadAvatar(_ context.Context, contentType string, _ []byte) (string, error) {
	if err := f.record("UploadAvatar"); err != nil {
		return "", err
	}
	f.uploadedCT = contentType
	return "https://cdn.example.com/avatars/a.png", nil
}

func (f *fakeAccount) Session() *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	cp := *f.session
	return &cp
}

func (f *fakeAccount) SetSession(s *models.Session) {
	f.mu.Lock()
	if s != nil {
		cp := *s
		s = &cp
	}
	f.session = s
	ls := append([]func(*models.Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}

func (f *fakeAccount) OnSessionChange(fn func(*models.Session)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

func (f *fakeAccount) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

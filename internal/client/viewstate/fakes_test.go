package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/stretchr/testify/require"
)

var nopLogger = logging.Discard()

type fakeUsers struct{ id string }

func (f fakeUsers) CurrentUserID() (string, bool) { return f.id, f.id != "" }

type fakeCloud struct {
	mu   sync.Mutex
	favs []models.CloudFavorite
}

func (f *fakeCloud) List(context.Context, string) ([]models.CloudFavorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CloudFavorite(nil), f.favs...), nil
}

func (f *fakeCloud) Add(_ context.Context, userID, text, author string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favs = append(f.favs, models.CloudFavorite{UserID: userID, Text: text, Author: author})
	return nil
}

func (f *fakeCloud) Remove(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.favs[:0]
	for _, c := range f.favs {
		if c.Text != text {
			kept = append(kept, c)
		}
	}
	f.favs = kept
	return nil
}

func newFavoritesService(t *testing.T, userID string, cloud services.CloudFavorites) *services.FavoritesService {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := favorites.OpenStore(context.Background(), db)
	require.NoError(t, err)
	return services.NewFavoritesService(store, cloud, fakeUsers{id: userID}, nopLogger)
}

type finderCall struct {
	category, search string
	at               time.Time
}

type fakeFinder struct {
	mu    sync.Mutex
	calls []finderCall
	err   error
	pages map[string][]models.Quote
}

func (f *fakeFinder) Quotes(_ context.Context, category, search string) ([]models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, finderCall{category: category, search: search, at: time.Now()})
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[category+"/"+search], nil
}

func (f *fakeFinder) snapshot() []finderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]finderCall(nil), f.calls...)
}

// fakeAccount implements the calls the profile screen makes; anything else
// panics through the nil embedded interface.
type fakeAccount struct {
	services.Account

	mu        sync.Mutex
	session   *models.Session
	listeners []func(*models.Session)
	uploadErr error
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

func (f *fakeAccount) SignOut(context.Context) error {
	f.SetSession(nil)
	return client.ErrUnavailable
}

func (f *fakeAccount) UploadAvatar(context.Context, string, []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "https://cdn.example.com/a.png", nil
}

func (f *fakeAccount) UpdateUser(_ context.Context, upd models.UserUpdate) (*models.User, error) {
	sess := f.Session()
	if upd.AvatarURL != nil {
		sess.User.AvatarURL = *upd.AvatarURL
	}
	f.SetSession(sess)
	return &sess.User, nil
}

func newMetadata(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

type fakeCollectionStore struct {
	mu        sync.Mutex
	list      []models.QuoteCollection
	listCalls int
	countErr  error
}

func (f *fakeCollectionStore) List(context.Context, string) ([]models.QuoteCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]models.QuoteCollection{}, f.list...), nil
}

func (f *fakeCollectionStore) Count(context.Context, string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list), f.countErr
}

func (f *fakeCollectionStore) Create(_ context.Context, userID, name string) (*models.QuoteCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.QuoteCollection{ID: int64(len(f.list) + 1), UserID: userID, Name: name}
	f.list = append(f.list, c)
	return &c, nil
}

func (f *fakeCollectionStore) Delete(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.list[:0]
	for _, c := range f.list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.list = kept
	return nil
}

func (f *fakeCollectionStore) Items(context.Context, int64) ([]models.CollectionItem, error) {
	return []models.CollectionItem{}, nil
}

func (f *fakeCollectionStore) AddItem(_ context.Context, id int64, text, author string) (*models.CollectionItem, error) {
	return &models.CollectionItem{ID: 1, CollectionID: id, Text: text, Author: author}, nil
}

func (f *fakeCollectionStore) RemoveItem(context.Context, int64) error { return nil }

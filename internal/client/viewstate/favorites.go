package viewstate

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// FavoritesState is what the favorites screen shows.
type FavoritesState struct {
	Favorites    []models.FavoriteQuote
	IsRefreshing bool
	LastSync     models.SyncReport
	Err          error
}

// Favorites is the saved-quotes screen. Opening it syncs once.
type Favorites struct {
	svc    *services.FavoritesService
	logger logging.Logger
	state  *observable.Subject[FavoritesState]

	mu   sync.Mutex
	stop func()
}

// NewFavorites returns the favorites screen state. Nothing is loaded until
// Open.
func NewFavorites(svc *services.FavoritesService, logger logging.Logger) *Favorites {
	return &Favorites{
		svc:    svc,
		logger: logger,
		state:  observable.NewSubjectWith(FavoritesState{Favorites: svc.Current()}),
	}
}

// State returns the current state.
func (f *Favorites) State() FavoritesState {
	v, _ := f.state.Value()
	return v
}

// Subscribe streams state changes.
func (f *Favorites) Subscribe() (<-chan FavoritesState, func()) {
	return f.state.Subscribe()
}

// Open starts following the local list and runs a cloud sync.
func (f *Favorites) Open(ctx context.Context) (models.SyncReport, error) {
	f.mu.Lock()
	if f.stop == nil {
		// Values can arrive late; the store's current list is never stale.
		f.stop = follow(f.svc.Favorites(), func([]models.FavoriteQuote) {
			f.state.Update(func(s FavoritesState) FavoritesState {
				s.Favorites = f.svc.Current()
				return s
			})
		})
	}
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// Close stops following the local list. Open may be called again.
func (f *Favorites) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

// Refresh pulls cloud favorites into the local cache.
func (f *Favorites) Refresh(ctx context.Context) (models.SyncReport, error) {
	f.state.Update(func(s FavoritesState) FavoritesState {
		s.IsRefreshing = true
		return s
	})
	report, err := f.svc.SyncFavorites(ctx)
	f.state.Update(func(s FavoritesState) FavoritesState {
		s.IsRefreshing = false
		s.LastSync = report
		s.Err = err
		s.Favorites = f.svc.Current()
		return s
	})
	return report, err
}

// Remove unlikes q locally and, when signed in, in the cloud.
func (f *Favorites) Remove(ctx context.Context, q models.FavoriteQuote) (models.ToggleResult, error) {
	res, err := f.svc.ToggleFavorite(ctx, q.Text, q.Author, true)
	if err != nil {
		return res, err
	}
	f.state.Update(func(s FavoritesState) FavoritesState {
		s.Favorites = f.svc.Current()
		return s
	})
	return res, nil
}

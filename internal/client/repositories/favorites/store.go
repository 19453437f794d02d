package favorites

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// Store is the reactive face of the favorites table: every write is
// followed by a fresh read that is published to subscribers.
type Store struct {
	db      *sql.DB
	repo    Repository
	subject *observable.Subject[[]models.FavoriteQuote]

	// mu orders write+reload pairs so subscribers never see an older list
	// after a newer one.
	mu sync.Mutex
}

// OpenStore loads the current favorites and returns a store publishing
// them.
func OpenStore(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{
		db:      db,
		repo:    NewSQLiteRepository(db),
		subject: observable.NewSubject[[]models.FavoriteQuote](),
	}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe streams the full favorites list, starting with the current one.
func (s *Store) Subscribe() (<-chan []models.FavoriteQuote, func()) {
	return s.subject.Subscribe()
}

// Current returns the last published list.
func (s *Store) Current() []models.FavoriteQuote {
	v, _ := s.subject.Value()
	return v
}

// Snapshot reads the table once without touching subscribers.
func (s *Store) Snapshot(ctx context.Context) ([]models.FavoriteQuote, error) {
	return s.repo.All(ctx)
}

// Reload reads the table and publishes the result.
func (s *Store) Reload(ctx context.Context) ([]models.FavoriteQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Store) reloadLocked(ctx context.Context) ([]models.FavoriteQuote, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	s.subject.Publish(all)
	return all, nil
}

// IsFavorite reports whether text is stored locally.
func (s *Store) IsFavorite(ctx context.Context, text string) (bool, error) {
	return s.repo.IsFavorite(ctx, text)
}

// Insert adds a favorite and republishes the list when a row was added.
func (s *Store) Insert(ctx context.Context, text, author string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.repo.Insert(ctx, text, author)
	if err != nil {
		return false, err
	}
	if added {
		if _, err := s.reloadLocked(ctx); err != nil {
			return true, err
		}
	}
	return added, nil
}

// DeleteByText removes a favorite and republishes the list when a row
// was removed.
func (s *Store) DeleteByText(ctx context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.DeleteByText(ctx, text)
	if err != nil {
		return false, err
	}
	if removed {
		if _, err := s.reloadLocked(ctx); err != nil {
			return true, err
		}
	}
	return removed, nil
}

// InsertAll adds every quote in one transaction and publishes once. It
// returns how many rows were actually added.
func (s *Store) InsertAll(ctx context.Context, quotes []models.FavoriteQuote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		for _, q := range quotes {
			ok, err := repo.Insert(ctx, q.Text, q.Author)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if added > 0 {
		if _, err := s.reloadLocked(ctx); err != nil {
			return added, err
		}
	}
	return added, nil
}

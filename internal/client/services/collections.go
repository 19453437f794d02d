package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/validatex"
)

// CollectionStore is the remote side of collections.
type CollectionStore interface {
	List(ctx context.Context, userID string) ([]models.QuoteCollection, error)
	Count(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, userID, name string) (*models.QuoteCollection, error)
	Delete(ctx context.Context, userID string, id int64) error
	Items(ctx context.Context, collectionID int64) ([]models.CollectionItem, error)
	AddItem(ctx context.Context, collectionID int64, text, author string) (*models.CollectionItem, error)
	RemoveItem(ctx context.Context, itemID int64) error
}

// CollectionsService scopes collection operations to the signed-in user.
// Without a user every call is a no-op: reads return empty results and
// writes return nil without touching the store.
type CollectionsService struct {
	repo   CollectionStore
	users  UserProvider
	logger logging.Logger
}

// NewCollectionsService returns a service over repo for the user reported
// by users.
func NewCollectionsService(repo CollectionStore, users UserProvider, logger logging.Logger) *CollectionsService {
	return &CollectionsService{repo: repo, users: users, logger: logger}
}

// List returns the signed-in user's collections; nobody signed in means an
// empty list.
func (s *CollectionsService) List(ctx context.Context) ([]models.QuoteCollection, error) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		return []models.QuoteCollection{}, nil
	}
	return s.repo.List(ctx, userID)
}

// Count returns how many collections the signed-in user owns, 0 when
// signed out.
func (s *CollectionsService) Count(ctx context.Context) (int, error) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		return 0, nil
	}
	return s.repo.Count(ctx, userID)
}

// Create adds a collection named name after trimming it. The name is
// checked before anything else. Signed out, it returns nil, nil.
func (s *CollectionsService) Create(ctx context.Context, name string) (*models.QuoteCollection, error) {
	name = strings.TrimSpace(name)
	if err := validatex.Var("name", name, "notblank,max=100"); err != nil {
		return nil, err
	}
	userID, ok := s.users.CurrentUserID()
	if !ok {
		s.logger.Debug(ctx, "Collection create skipped, not signed in")
		return nil, nil
	}
	c, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Collection created", "id", c.ID)
	return c, nil
}

// Delete removes collection id and its items.
func (s *CollectionsService) Delete(ctx context.Context, id int64) error {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		return nil
	}
	return s.repo.Delete(ctx, userID, id)
}

// Items lists one collection, empty when signed out.
func (s *CollectionsService) Items(ctx context.Context, collectionID int64) ([]models.CollectionItem, error) {
	if _, ok := s.users.CurrentUserID(); !ok {
		return []models.CollectionItem{}, nil
	}
	return s.repo.Items(ctx, collectionID)
}

// AddQuote saves a copy of the quote text and author into the collection.
// Signed out, it returns nil, nil.
func (s *CollectionsService) AddQuote(ctx context.Context, collectionID int64, text, author string) (*models.CollectionItem, error) {
	if _, ok := s.users.CurrentUserID(); !ok {
		return nil, nil
	}
	return s.repo.AddItem(ctx, collectionID, text, author)
}

// RemoveItem deletes one collection item.
func (s *CollectionsService) RemoveItem(ctx context.Context, itemID int64) error {
	if _, ok := s.users.CurrentUserID(); !ok {
		return nil
	}
	return s.repo.RemoveItem(ctx, itemID)
}

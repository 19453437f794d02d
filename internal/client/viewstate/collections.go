package viewstate

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// CollectionsState is what the collections tab shows.
type CollectionsState struct {
	Collections []models.QuoteCollection
	IsLoading   bool
	Err         error
}

// Collections is the collections tab. It reloads every time the tab
// becomes active.
type Collections struct {
	svc    *services.CollectionsService
	logger logging.Logger
	state  *observable.Subject[CollectionsState]
}

// NewCollections starts with an empty list; call Activate to load it.
func NewCollections(svc *services.CollectionsService, logger logging.Logger) *Collections {
	return &Collections{
		svc:    svc,
		logger: logger,
		state:  observable.NewSubjectWith(CollectionsState{Collections: []models.QuoteCollection{}}),
	}
}

// State returns the current state.
func (c *Collections) State() CollectionsState {
	v, _ := c.state.Value()
	return v
}

// Subscribe streams state changes.
func (c *Collections) Subscribe() (<-chan CollectionsState, func()) {
	return c.state.Subscribe()
}

// Activate reloads the list. Call it whenever the tab becomes active.
func (c *Collections) Activate(ctx context.Context) error {
	return c.reload(ctx)
}

func (c *Collections) reload(ctx context.Context) error {
	c.state.Update(func(s CollectionsState) CollectionsState {
		s.IsLoading = true
		return s
	})
	list, err := c.svc.List(ctx)
	if err != nil {
		c.logger.Warn(ctx, "Failed to load collections", "error", err)
	}
	c.state.Update(func(s CollectionsState) CollectionsState {
		s.IsLoading = false
		s.Err = err
		if err == nil {
			s.Collections = list
		}
		return s
	})
	return err
}

// Create adds a collection and reloads the list.
func (c *Collections) Create(ctx context.Context, name string) (*models.QuoteCollection, error) {
	created, err := c.svc.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return created, c.reload(ctx)
}

// Delete removes a collection and reloads the list.
func (c *Collections) Delete(ctx context.Context, id int64) error {
	if err := c.svc.Delete(ctx, id); err != nil {
		return err
	}
	return c.reload(ctx)
}

// Items lists the quotes of collection id.
func (c *Collections) Items(ctx context.Context, id int64) ([]models.CollectionItem, error) {
	return c.svc.Items(ctx, id)
}

// AddQuote keeps q in collection id.
func (c *Collections) AddQuote(ctx context.Context, id int64, q models.Quote) (*models.CollectionItem, error) {
	return c.svc.AddQuote(ctx, id, q.Text, q.Author)
}

// RemoveItem drops one item from its collection.
func (c *Collections) RemoveItem(ctx context.Context, itemID int64) error {
	return c.svc.RemoveItem(ctx, itemID)
}

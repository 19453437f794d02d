package viewstate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/discovery"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/debounce"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// DefaultSearchDelay is how long typing must pause before a search runs.
const DefaultSearchDelay = 500 * time.Millisecond

// QuoteFinder runs catalogue queries.
type QuoteFinder interface {
	Quotes(ctx context.Context, category, search string) ([]models.Quote, error)
}

// DiscoveryState is what the browse screen shows.
type DiscoveryState struct {
	Category string
	Search   string
	// Quotes is the last loaded page with the liked state applied.
	Quotes    []models.Quote
	IsLoading bool
	// Err is the last load failure. Quotes keeps the last good page.
	Err error
}

// Discovery is the browse/search screen.
type Discovery struct {
	finder    QuoteFinder
	favorites *services.FavoritesService
	debouncer *debounce.Debouncer
	logger    logging.Logger

	page  *observable.Subject[[]models.Quote]
	liked *observable.Shared[[]models.Quote]
	state *observable.Subject[DiscoveryState]

	mu   sync.Mutex
	seq  uint64
	stop func()
}

// NewDiscovery builds the browse screen state. Call Close when done.
func NewDiscovery(finder QuoteFinder, favorites *services.FavoritesService, searchDelay, grace time.Duration, logger logging.Logger) *Discovery {
	page := observable.NewSubjectWith([]models.Quote{})
	return &Discovery{
		finder:    finder,
		favorites: favorites,
		debouncer: debounce.New(searchDelay),
		logger:    logger,
		page:      page,
		liked:     favorites.LikedQuotes(page, grace),
		state:     observable.NewSubjectWith(DiscoveryState{Category: discovery.DefaultCategory}),
	}
}

// State returns the current state.
func (d *Discovery) State() DiscoveryState {
	v, _ := d.state.Value()
	return v
}

// Subscribe streams state changes.
func (d *Discovery) Subscribe() (<-chan DiscoveryState, func()) {
	return d.state.Subscribe()
}

// Open attaches the screen: the liked view starts feeding the state and
// the current category is loaded.
func (d *Discovery) Open(ctx context.Context) error {
	d.mu.Lock()
	if d.stop == nil {
		d.stop = follow[[]models.Quote](d.liked, func(qs []models.Quote) {
			page, _ := d.page.Value()
			if !samePage(qs, page) {
				return
			}
			d.state.Update(func(s DiscoveryState) DiscoveryState {
				s.Quotes = qs
				return s
			})
		})
	}
	d.mu.Unlock()

	s := d.State()
	return d.load(ctx, s.Category, s.Search)
}

// Close detaches the screen and drops a pending search.
func (d *Discovery) Close() {
	d.debouncer.Cancel()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}

// SetCategory switches category and loads it right away.
func (d *Discovery) SetCategory(ctx context.Context, category string) error {
	d.debouncer.Cancel()
	s := d.updateState(func(s *DiscoveryState) { s.Category = category })
	return d.load(ctx, s.Category, s.Search)
}

// SetSearch records the search text; the query runs once typing has been
// quiet for the search delay.
func (d *Discovery) SetSearch(ctx context.Context, search string) {
	d.updateState(func(s *DiscoveryState) { s.Search = search })
	d.debouncer.Trigger(func() {
		s := d.State()
		_ = d.load(ctx, s.Category, s.Search)
	})
}

// SearchPending reports whether a debounced search has not finished yet.
func (d *Discovery) SearchPending() bool {
	return d.debouncer.Pending()
}

// Refresh reloads the current category and search.
func (d *Discovery) Refresh(ctx context.Context) error {
	s := d.State()
	return d.load(ctx, s.Category, s.Search)
}

// ToggleFavorite flips the liked state of q. The list follows through the
// favorites stream.
func (d *Discovery) ToggleFavorite(ctx context.Context, q models.Quote) (models.ToggleResult, error) {
	return d.favorites.ToggleFavorite(ctx, q.Text, q.Author, q.IsLiked)
}

func (d *Discovery) updateState(fn func(s *DiscoveryState)) DiscoveryState {
	var out DiscoveryState
	d.state.Update(func(s DiscoveryState) DiscoveryState {
		fn(&s)
		out = s
		return s
	})
	return out
}

// load fetches one page. A response that arrives after a newer request was
// started is dropped.
func (d *Discovery) load(ctx context.Context, category, search string) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	d.updateState(func(s *DiscoveryState) { s.IsLoading = true })
	quotes, err := d.finder.Quotes(ctx, category, strings.TrimSpace(search))

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return err
	}
	if err != nil {
		d.logger.Warn(ctx, "Failed to load quotes", "category", category, "error", err)
		d.updateState(func(s *DiscoveryState) {
			s.IsLoading = false
			s.Err = err
		})
		return err
	}
	d.page.Publish(quotes)
	d.updateState(func(s *DiscoveryState) {
		s.IsLoading = false
		s.Err = nil
		s.Quotes = services.MergeLiked(quotes, d.favorites.Current())
	})
	return nil
}

// samePage reports whether merged was computed from page.
func samePage(merged, page []models.Quote) bool {
	if len(merged) != len(page) {
		return false
	}
	for i := range merged {
		if merged[i].ID != page[i].ID || merged[i].Text != page[i].Text {
			return false
		}
	}
	return true
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/discovery"
)

const (
	searchWait = 10 * time.Second
	pollEvery  = 20 * time.Millisecond
	maxRandom  = 10
)

// Categories lists the catalogue categories.
func (a *App) Categories(_ context.Context, _ []string) error {
	current := a.discovery.State().Category
	st := a.style()
	for _, c := range discovery.Categories {
		if c == current {
			a.say("%s", st.title.Render("* "+c))
		} else {
			a.say("  %s", c)
		}
	}
	return nil
}

// matchCategory resolves name case-insensitively.
func matchCategory(name string) (string, bool) {
	for _, c := range discovery.Categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func (a *App) showQuotes() {
	a.say("%s", renderQuotes(a.style(), a.discovery.State()))
}

// Browse switches to a category, or reloads the current one.
func (a *App) Browse(ctx context.Context, args []string) error {
	var err error
	if len(args) == 0 {
		err = a.discovery.Refresh(ctx)
	} else {
		cat, ok := matchCategory(strings.Join(args, " "))
		if !ok {
			a.say("Unknown category. Try one of: %s", strings.Join(discovery.Categories, ", "))
			return errUsage
		}
		err = a.discovery.SetCategory(ctx, cat)
	}
	// A failed load keeps the previous page, which is still worth showing.
	a.showQuotes()
	return err
}

// Search filters the current category by text and author. The query is
// debounced like typing in a search box; the command waits for it.
func (a *App) Search(ctx context.Context, args []string) error {
	a.discovery.SetSearch(ctx, strings.Join(args, " "))
	if err := a.waitForSearch(ctx); err != nil {
		return a.fail(ctx, "Search", err)
	}
	a.showQuotes()
	return a.discovery.State().Err
}

// waitForSearch polls until the debounced search has run.
func (a *App) waitForSearch(ctx context.Context) error {
	deadline := time.Now().Add(a.config.SearchDebounce + searchWait)
	for a.discovery.SearchPending() {
		if time.Now().After(deadline) {
			return errors.New("search timed out")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollEvery):
		}
	}
	return nil
}

// Random shows n random quotes (one by default). An empty or unreachable
// catalogue still yields the fallback quote.
func (a *App) Random(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxRandom {
			return a.usage(fmt.Sprintf("random [1-%d]", maxRandom))
		}
		n = v
	}
	quotes, err := a.quotes.Random(ctx, n)
	if err != nil {
		a.logger.Warn(ctx, "Random quote fell back", "error", err)
	}
	st := a.style()
	for _, q := range quotes {
		a.say("%s", renderQuoteCard(st, q))
	}
	return nil
}

// Like flips the liked state of quote #n in the last page shown.
func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("like <n>")
	}
	quotes := a.discovery.State().Quotes
	i, err := parseIndex(args[0], len(quotes))
	if err != nil {
		a.say("%s", err)
		return err
	}
	q := quotes[i]

	res, err := a.discovery.ToggleFavorite(ctx, q)
	if err != nil {
		return a.fail(ctx, "Like", err)
	}
	st := a.style()
	if res.Liked {
		a.say("%s Added to favorites.", heart(st, true))
	} else {
		a.say("%s Removed from favorites.", heart(st, false))
	}
	if res.CloudErr != nil {
		a.say("%s", st.muted.Render("Saved on this device only: "+describe(res.CloudErr)))
	}
	return nil
}

// Favorites lists the local favorites, pulling the cloud copy first when
// signed in.
func (a *App) Favorites(ctx context.Context, _ []string) error {
	_, err := a.favScreen.Open(ctx)
	s := a.favScreen.State()
	a.mu.Lock()
	a.shownFavs = s.Favorites
	a.mu.Unlock()
	a.say("%s", renderFavorites(a.style(), s))
	return err
}

// Unfavorite removes favorite n as numbered by the last favs listing.
func (a *App) Unfavorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("unfav <n>")
	}
	a.mu.Lock()
	favs := a.shownFavs
	a.mu.Unlock()
	// Nothing listed yet: number against the current local list.
	if favs == nil {
		favs = a.favorites.Current()
	}
	i, err := parseIndex(args[0], len(favs))
	if err != nil {
		a.say("%s", err)
		return err
	}

	res, err := a.favScreen.Remove(ctx, favs[i])
	if err != nil {
		return a.fail(ctx, "Unfavorite", err)
	}
	a.mu.Lock()
	a.shownFavs = a.favScreen.State().Favorites
	a.mu.Unlock()
	a.say("Removed %q.", favs[i].Text)
	if res.CloudErr != nil {
		a.say("%s", a.style().muted.Render("Saved on this device only: "+describe(res.CloudErr)))
	}
	return nil
}

// Sync copies cloud favorites that are missing locally.
func (a *App) Sync(ctx context.Context, _ []string) error {
	report, err := a.favScreen.Refresh(ctx)
	if err != nil {
		return a.fail(ctx, "Sync", err)
	}
	a.say("%s", syncSummary(report))
	return nil
}

// syncSummary is the one-line result of a sync.
func syncSummary(r models.SyncReport) string {
	if r.Skipped {
		return "Sign in to sync favorites across devices."
	}
	return fmt.Sprintf("Synced: %d in the cloud, %d new on this device.", r.Fetched, r.Added)
}

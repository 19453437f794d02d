package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
)

// refreshCollections reloads the list and makes it the one positions
// refer to.
func (a *App) refreshCollections(ctx context.Context) ([]models.QuoteCollection, error) {
	err := a.collections.Activate(ctx)
	cols := a.collections.State().Collections
	a.mu.Lock()
	a.shownCols = cols
	a.mu.Unlock()
	return cols, err
}

// pickCollection resolves a list position against the last collections
// listing, loading it first if nothing was listed yet.
func (a *App) pickCollection(ctx context.Context, arg string) (models.QuoteCollection, error) {
	a.mu.Lock()
	cols := a.shownCols
	a.mu.Unlock()
	if cols == nil {
		var err error
		if cols, err = a.refreshCollections(ctx); err != nil {
			return models.QuoteCollection{}, a.fail(ctx, "Collections", err)
		}
	}
	i, err := parseIndex(arg, len(cols))
	if err != nil {
		a.say("%s", err)
		return models.QuoteCollection{}, err
	}
	return cols[i], nil
}

// signedOut tells the user collections need an account. Collection
// commands are no-ops while it reports true.
func (a *App) signedOut() bool {
	if a.isLoggedIn() {
		return false
	}
	a.say("Sign in to keep quotes in collections.")
	return true
}

// Collections lists the signed-in user's collections.
func (a *App) Collections(ctx context.Context, _ []string) error {
	if a.signedOut() {
		return nil
	}
	_, err := a.refreshCollections(ctx)
	a.say("%s", renderCollections(a.style(), a.collections.State()))
	return err
}

// NewCollection creates a collection named by the joined args.
func (a *App) NewCollection(ctx context.Context, args []string) error {
	if a.signedOut() {
		return nil
	}
	if len(args) == 0 {
		return a.usage("newcol <name>")
	}
	c, err := a.collections.Create(ctx, strings.Join(args, " "))
	if err != nil {
		return a.fail(ctx, "Create collection", err)
	}
	a.mu.Lock()
	a.shownCols = a.collections.State().Collections
	a.mu.Unlock()
	a.say("Created collection %q.", c.Name)
	return nil
}

// DeleteCollection removes collection n and its items.
func (a *App) DeleteCollection(ctx context.Context, args []string) error {
	if a.signedOut() {
		return nil
	}
	if len(args) != 1 {
		return a.usage("delcol <n>")
	}
	c, err := a.pickCollection(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.collections.Delete(ctx, c.ID); err != nil {
		return a.fail(ctx, "Delete collection", err)
	}
	a.mu.Lock()
	a.shownCols = a.collections.State().Collections
	a.mu.Unlock()
	a.say("Deleted collection %q.", c.Name)
	return nil
}

// ShowCollection prints the quotes kept in collection n.
func (a *App) ShowCollection(ctx context.Context, args []string) error {
	if a.signedOut() {
		return nil
	}
	if len(args) != 1 {
		return a.usage("showcol <n>")
	}
	c, err := a.pickCollection(ctx, args[0])
	if err != nil {
		return err
	}
	items, err := a.collections.Items(ctx, c.ID)
	if err != nil {
		return a.fail(ctx, "Collection items", err)
	}
	a.say("%s", renderItems(a.style(), c.Name, items))
	return nil
}

// AddToCollection copies quote #q of the current page into collection #c.
func (a *App) AddToCollection(ctx context.Context, args []string) error {
	if a.signedOut() {
		return nil
	}
	if len(args) != 2 {
		return a.usage("addto <collection n> <quote n>")
	}
	c, err := a.pickCollection(ctx, args[0])
	if err != nil {
		return err
	}
	quotes := a.discovery.State().Quotes
	i, err := parseIndex(args[1], len(quotes))
	if err != nil {
		a.say("%s", err)
		return err
	}
	if _, err := a.collections.AddQuote(ctx, c.ID, quotes[i]); err != nil {
		return a.fail(ctx, "Add to collection", err)
	}
	a.say("Added to %q.", c.Name)
	return nil
}

// RemoveFromCollection drops item n of a collection.
func (a *App) RemoveFromCollection(ctx context.Context, args []string) error {
	if a.signedOut() {
		return nil
	}
	if len(args) != 2 {
		return a.usage("rmitem <collection n> <item n>")
	}
	c, err := a.pickCollection(ctx, args[0])
	if err != nil {
		return err
	}
	// Item numbers follow showcol, which lists the same order.
	items, err := a.collections.Items(ctx, c.ID)
	if err != nil {
		return a.fail(ctx, "Collection items", err)
	}
	i, err := parseIndex(args[1], len(items))
	if err != nil {
		a.say("%s", err)
		return err
	}
	if err := a.collections.RemoveItem(ctx, items[i].ID); err != nil {
		return a.fail(ctx, "Remove from collection", err)
	}
	a.say("Removed from %q.", c.Name)
	return nil
}

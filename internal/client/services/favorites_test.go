package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/cloudfavorites"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textSet(fs []models.FavoriteQuote) map[string]bool {
	out := make(map[string]bool, len(fs))
	for _, f := range fs {
		out[f.Text] = true
	}
	return out
}

func TestSyncFavorites_NotSignedIn(t *testing.T) {
	store := openStore(t)
	cloud := &fakeCloudFavorites{favs: []models.CloudFavorite{{Text: "a"}}}
	svc := NewFavoritesService(store, cloud, fakeUsers{}, nopLogger)

	rep, err := svc.SyncFavorites(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Skipped)
	assert.Zero(t, cloud.listCalls, "no remote call without a user")
	assert.Empty(t, store.Current())
}

func TestSyncFavorites_AdditiveAndIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	_, err := store.Insert(ctx, "local only", "me")
	require.NoError(t, err)
	_, err = store.Insert(ctx, "shared", "someone")
	require.NoError(t, err)

	cloud := &fakeCloudFavorites{favs: []models.CloudFavorite{
		{ID: 1, UserID: "u1", Text: "shared", Author: "someone else"},
		{ID: 2, UserID: "u1", Text: "cloud only", Author: "x"},
		{ID: 3, UserID: "u1", Text: "cloud only", Author: "y"},
	}}
	svc := NewFavoritesService(store, cloud, fakeUsers{id: "u1"}, nopLogger)

	rep, err := svc.SyncFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Fetched: 3, Added: 1}, rep)
	assert.Equal(t, []string{"u1"}, cloud.users)

	after := textSet(store.Current())
	for _, c := range cloud.favs {
		assert.True(t, after[c.Text], "cloud text %q must be local", c.Text)
	}
	assert.True(t, after["local only"], "local-only favorites survive a sync")

	rep, err = svc.SyncFavorites(ctx)
	require.NoError(t, err)
	assert.Zero(t, rep.Added)
	assert.Len(t, store.Current(), 3)
}

// pagedTables answers selects like the server: ordered by id, at most
// wire.MaxRows rows from Offset.
type pagedTables struct {
	client.TableStore
	rows    []wire.Row
	selects int
}

func (p *pagedTables) Select(_ context.Context, q wire.Query) ([]wire.Row, error) {
	p.selects++
	limit := q.Limit
	if limit <= 0 || limit > wire.MaxRows {
		limit = wire.MaxRows
	}
	start := min(q.Offset, len(p.rows))
	return p.rows[start:min(start+limit, len(p.rows))], nil
}

func TestSyncFavorites_ReadsEveryCloudPage(t *testing.T) {
	ctx := context.Background()
	const total = 2*wire.MaxRows + 150

	tables := &pagedTables{}
	for i := 1; i <= total; i++ {
		tables.rows = append(tables.rows, wire.Row{
			"id": float64(i), "user_id": "u1", "text": fmt.Sprintf("quote %d", i), "author": "a",
		})
	}
	store := openStore(t)
	svc := NewFavoritesService(store, cloudfavorites.NewRepository(tables), fakeUsers{id: "u1"}, nopLogger)

	rep, err := svc.SyncFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Fetched: total, Added: total}, rep)
	assert.Equal(t, 3, tables.selects)

	after := textSet(store.Current())
	assert.Len(t, after, total)
	assert.True(t, after["quote 1"])
	assert.True(t, after[fmt.Sprintf("quote %d", total)], "newest likes are synced too")
}

func TestSyncFavorites_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	_, err := store.Insert(ctx, "kept", "me")
	require.NoError(t, err)

	cloud := &fakeCloudFavorites{listErr: client.ErrUnavailable}
	svc := NewFavoritesService(store, cloud, fakeUsers{id: "u1"}, nopLogger)

	rep, err := svc.SyncFavorites(ctx)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, rep.Skipped)
	assert.Zero(t, rep.Added)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestToggleFavorite_RoundTripSignedIn(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	cloud := &fakeCloudFavorites{}
	svc := NewFavoritesService(store, cloud, fakeUsers{id: "u1"}, nopLogger)

	res, err := svc.ToggleFavorite(ctx, "q", "a", false)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleResult{Liked: true, Mirrored: true}, res)
	liked, err := svc.IsFavorite(ctx, "q")
	require.NoError(t, err)
	assert.True(t, liked)

	res, err = svc.ToggleFavorite(ctx, "q", "a", true)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleResult{Liked: false, Mirrored: true}, res)
	liked, err = svc.IsFavorite(ctx, "q")
	require.NoError(t, err)
	assert.False(t, liked)

	assert.Equal(t, []string{"q"}, cloud.added)
	assert.Equal(t, []string{"q"}, cloud.removed)
	assert.Equal(t, []string{"u1", "u1"}, cloud.users)
}

func TestToggleFavorite_LocalOnlyWhenSignedOut(t *testing.T) {
	ctx := context.Background()
	cloud := &fakeCloudFavorites{}
	svc := NewFavoritesService(openStore(t), cloud, fakeUsers{}, nopLogger)

	res, err := svc.ToggleFavorite(ctx, "q", "a", false)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.False(t, res.Mirrored)
	assert.NoError(t, res.CloudErr)
	assert.Empty(t, cloud.users)
}

func TestToggleFavorite_CloudFailureKeepsLocalChange(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	cloud := &fakeCloudFavorites{writeErr: boom}
	svc := NewFavoritesService(openStore(t), cloud, fakeUsers{id: "u1"}, nopLogger)

	res, err := svc.ToggleFavorite(ctx, "q", "a", false)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.False(t, res.Mirrored)
	assert.ErrorIs(t, res.CloudErr, boom)

	liked, err := svc.IsFavorite(ctx, "q")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleFavorite_DedupByTextIgnoresAuthor(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	svc := NewFavoritesService(store, &fakeCloudFavorites{}, fakeUsers{}, nopLogger)

	_, err := svc.ToggleFavorite(ctx, "same words", "first", false)
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(ctx, "same words", "second", false)
	require.NoError(t, err)

	all := store.Current()
	require.Len(t, all, 1)
	assert.Equal(t, "first", all[0].Author)
}

func TestMergeLiked(t *testing.T) {
	quotes := []models.Quote{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b", IsLiked: true},
		{ID: 3, Text: "c"},
	}
	favs := []models.FavoriteQuote{{Text: "c"}, {Text: "z"}}

	got := MergeLiked(quotes, favs)
	require.Len(t, got, 3)
	for i, q := range got {
		assert.Equal(t, quotes[i].ID, q.ID)
	}
	assert.False(t, got[0].IsLiked)
	assert.False(t, got[1].IsLiked, "stale flag is recomputed")
	assert.True(t, got[2].IsLiked)
	assert.True(t, quotes[1].IsLiked, "input is not modified")

	assert.Empty(t, MergeLiked(nil, favs))
}

func waitQuotes(t *testing.T, ch <-chan []models.Quote, match func([]models.Quote) bool) []models.Quote {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-ch:
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for merged quotes")
			return nil
		}
	}
}

func TestLikedQuotes_FollowsBothInputs(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	svc := NewFavoritesService(store, &fakeCloudFavorites{}, fakeUsers{}, nopLogger)

	page := observable.NewSubjectWith([]models.Quote{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}})
	view := svc.LikedQuotes(page, 0)

	ch, cancel := view.Subscribe()
	waitQuotes(t, ch, func(qs []models.Quote) bool { return len(qs) == 2 && !qs[0].IsLiked && !qs[1].IsLiked })

	_, err := svc.ToggleFavorite(ctx, "b", "", false)
	require.NoError(t, err)
	waitQuotes(t, ch, func(qs []models.Quote) bool { return len(qs) == 2 && qs[1].IsLiked })

	page.Publish([]models.Quote{{ID: 3, Text: "b"}})
	waitQuotes(t, ch, func(qs []models.Quote) bool { return len(qs) == 1 && qs[0].ID == 3 && qs[0].IsLiked })

	cancel()
	assert.Eventually(t, func() bool { return !view.Active() }, time.Second, 10*time.Millisecond)
}

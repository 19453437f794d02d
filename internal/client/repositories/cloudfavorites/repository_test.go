package cloudfavorites

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows []wire.Row
	err  error

	query    wire.Query
	inserted []wire.Row
	table    string
	filters  []wire.Filter
}

func (f *fakeStore) Select(_ context.Context, q wire.Query) ([]wire.Row, error) {
	f.query = q
	return f.rows, f.err
}

func (f *fakeStore) Insert(_ context.Context, table string, rows ...wire.Row) ([]wire.Row, error) {
	f.table, f.inserted = table, rows
	return rows, f.err
}

func (f *fakeStore) Delete(_ context.Context, table string, filters ...wire.Filter) (int64, error) {
	f.table, f.filters = table, filters
	return 1, f.err
}

func TestList_ScopedToUser(t *testing.T) {
	fs := &fakeStore{rows: []wire.Row{
		{"id": float64(7), "user_id": "u1", "text": "t", "author": "a"},
	}}
	r := NewRepository(fs)

	got, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "u1", got[0].UserID)

	assert.Equal(t, "user_favorites", fs.query.Table)
	assert.Equal(t, []wire.Filter{wire.Eq("user_id", "u1")}, fs.query.Filters)
}

func TestList_Error(t *testing.T) {
	r := NewRepository(&fakeStore{err: client.ErrUnavailable})
	got, err := r.List(context.Background(), "u1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestAddAndRemove(t *testing.T) {
	fs := &fakeStore{}
	r := NewRepository(fs)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "u1", "t", "a"))
	assert.Equal(t, "user_favorites", fs.table)
	assert.Equal(t, []wire.Row{{"user_id": "u1", "text": "t", "author": "a"}}, fs.inserted)

	require.NoError(t, r.Remove(ctx, "u1", "t"))
	assert.Equal(t, []wire.Filter{wire.Eq("user_id", "u1"), wire.Eq("text", "t")}, fs.filters)

	fs.err = client.ErrForbidden
	assert.ErrorIs(t, r.Add(ctx, "u1", "t", "a"), client.ErrForbidden)
	assert.ErrorIs(t, r.Remove(ctx, "u1", "t"), client.ErrForbidden)
}

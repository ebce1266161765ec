package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStore_InsertAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := &Recipe{Title: "Garlic Prawns", Category: "Seafood", Instructions: "Peel. Fry."}
	require.NoError(t, store.SaveRecipe(ctx, r))
	assert.Equal(t, int64(1), r.ID)

	second := &Recipe{Title: "Lentil Dahl"}
	require.NoError(t, store.SaveRecipe(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	got, err := store.FetchByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *r, *got)
}

func TestSQLStore_FetchByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.FetchByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStore_FetchAllOrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, r := range []Recipe{
		{ID: 30, Title: "Pavlova", Category: "Dessert"},
		{ID: 10, Title: "Fish Pie", Category: "Seafood"},
		{ID: 20, Title: "Shakshuka"},
	} {
		r := r
		require.NoError(t, store.SaveRecipe(ctx, &r))
	}

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "", all[1].Category)
}

func TestSQLStore_FetchAllEmpty(t *testing.T) {
	all, err := newTestStore(t).FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestSQLStore_UpsertByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecipe(ctx, &Recipe{ID: 5, Title: "Soup", Category: "Vegetarian"}))
	require.NoError(t, store.SaveRecipe(ctx, &Recipe{ID: 5, Title: "Tomato Soup", Difficulty: "Easy"}))

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, Recipe{ID: 5, Title: "Tomato Soup", Difficulty: "Easy"}, all[0])
}

func TestSQLStore_FileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveRecipe(ctx, &Recipe{Title: "Churros", Category: "Dessert"}))
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Churros", all[0].Title)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestSupportedDrivers(t *testing.T) {
	assert.Equal(t, []string{"postgres", "sqlite3"}, SupportedDrivers())
	assert.True(t, IsSupportedDriver("sqlite3"))
	assert.False(t, IsSupportedDriver("mysql"))
}

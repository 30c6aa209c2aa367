package repository

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/approvly/approvly/pkg/db/option"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
	Rank int
}

func newStore(t *testing.T) Repository[widget] {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	return ProvideStore[widget](db)
}

func TestStoreFindWithOptions(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.BatchCreate(ctx, []*widget{
		{ID: 1, Name: "a", Rank: 3},
		{ID: 2, Name: "b", Rank: 1},
		{ID: 3, Name: "c", Rank: 2},
		{ID: 4, Name: "d", Rank: 4},
	}))

	found, err := store.Find(ctx, &widget{},
		option.WithWhere("rank <= ?", 3),
		option.WithOrder("rank asc"),
		option.WithLimit(2),
	)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "b", found[0].Name)
	assert.Equal(t, "c", found[1].Name)
}

func TestStoreFindOne(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &widget{ID: 1, Name: "a"}))

	got, err := store.FindOne(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	missing, err := store.FindOne(ctx, &widget{Name: "zzz"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreSaveCountDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	w := &widget{ID: 1, Name: "a", Rank: 1}
	require.NoError(t, store.Create(ctx, w))

	w.Rank = 9
	require.NoError(t, store.Save(ctx, w))

	count, err := store.Count(ctx, &widget{Rank: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, strconv.FormatInt(w.ID, 10)))
	count, err = store.Count(ctx, &widget{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

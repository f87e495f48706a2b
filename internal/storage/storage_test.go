package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/storage"
)

func openTemp(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "luckydex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRosterRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.LoadRoster(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	at := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	r := roster.New([]roster.Creature{
		{DexNumber: 2, Name: "Ivysaur"},
		{DexNumber: 1, Name: "Bulbasaur", IsLucky: true},
	}, at)
	require.NoError(t, db.SaveRoster(ctx, r))

	got, err := db.LoadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, r.Creatures, got.Creatures)
	assert.True(t, at.Equal(got.LastUpdated))

	smaller := roster.New([]roster.Creature{{DexNumber: 3, Name: "Venusaur"}}, at.Add(time.Hour))
	require.NoError(t, db.SaveRoster(ctx, smaller))
	got, err = db.LoadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller.Creatures, got.Creatures)
}

func TestToggleLucky(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveRoster(ctx, roster.New([]roster.Creature{{DexNumber: 1, Name: "Bulbasaur"}}, at)))

	c, err := db.ToggleLucky(ctx, 1, at.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, c.IsLucky)

	got, err := db.LoadRoster(ctx)
	require.NoError(t, err)
	assert.True(t, got.Creatures[0].IsLucky)
	assert.True(t, at.Add(time.Minute).Equal(got.LastUpdated))

	_, err = db.ToggleLucky(ctx, 999, at)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPartnerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.LoadPartner(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	p := roster.NewPartner(roster.NewDexSet(25, 1), "Sam", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, db.SavePartner(ctx, p))

	got, err := db.LoadPartner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, []int{1, 25}, got.Dex)
	assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, db.ClearPartner(ctx))
	_, err = db.LoadPartner(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, db.ClearPartner(ctx))
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	names, err := db.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, db.SaveCatalog(ctx, map[int]string{1: "Bulbasaur", 122: "Mr Mime"}))
	names, err = db.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Bulbasaur", 122: "Mr Mime"}, names)
}

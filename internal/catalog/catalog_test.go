package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/luckydex/internal/catalog"
	"github.com/tayloree/luckydex/internal/roster"
)

const speciesJSON = `{
  "count": 4,
  "results": [
    {"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon-species/1/"},
    {"name": "mr-mime", "url": "https://pokeapi.co/api/v2/pokemon-species/122/"},
    {"name": "tapu-koko", "url": "https://pokeapi.co/api/v2/pokemon-species/785"},
    {"name": "broken", "url": "https://pokeapi.co/api/v2/pokemon/9/"}
  ]
}`

type memStore struct {
	names   map[int]string
	saves   int
	loadErr error
}

func (m *memStore) SaveCatalog(_ context.Context, names map[int]string) error {
	m.saves++
	m.names = names
	return nil
}

func (m *memStore) LoadCatalog(context.Context) (map[int]string, error) {
	return m.names, m.loadErr
}

type fetcherFunc func(ctx context.Context) ([]byte, error)

func (f fetcherFunc) FetchSpecies(ctx context.Context) ([]byte, error) { return f(ctx) }

func TestParseSpecies(t *testing.T) {
	names, err := catalog.ParseSpecies([]byte(speciesJSON))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Bulbasaur", 122: "Mr Mime", 785: "Tapu Koko"}, names)
}

func TestParseSpecies_EmptyIsError(t *testing.T) {
	_, err := catalog.ParseSpecies([]byte(`{"results":[]}`))
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	_, err = catalog.ParseSpecies([]byte(`not json`))
	assert.Error(t, err)
}

func TestPokeAPILoader(t *testing.T) {
	load := catalog.PokeAPILoader(fetcherFunc(func(context.Context) ([]byte, error) {
		return []byte(speciesJSON), nil
	}))
	names, err := load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mr Mime", names[122])
}

func TestCache_LoadsOnceAndPersists(t *testing.T) {
	calls := 0
	store := &memStore{}
	c := catalog.New(func(context.Context) (map[int]string, error) {
		calls++
		return map[int]string{1: "Bulbasaur"}, nil
	}, store)

	_, ok := c.Name(1)
	assert.False(t, ok, "Name must not trigger a load")

	for range 3 {
		names, err := c.Names(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bulbasaur", names[1])
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.saves)

	name, ok := c.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "Bulbasaur", name)
}

func TestCache_PrefersStore(t *testing.T) {
	store := &memStore{names: map[int]string{25: "Pikachu"}}
	c := catalog.New(func(context.Context) (map[int]string, error) {
		t.Fatal("loader must not run when the store has names")
		return nil, nil
	}, store)

	names, err := c.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", names[25])
}

func TestCache_InvalidateAndRefresh(t *testing.T) {
	version := 0
	c := catalog.New(func(context.Context) (map[int]string, error) {
		version++
		if version == 1 {
			return map[int]string{1: "Bulbasaur"}, nil
		}
		return map[int]string{1: "Bulbasaur", 2: "Ivysaur"}, nil
	}, nil)

	_, err := c.Names(context.Background())
	require.NoError(t, err)

	c.Invalidate()
	_, ok := c.Name(1)
	assert.False(t, ok)

	names, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 2)
	name, ok := c.Name(2)
	assert.True(t, ok)
	assert.Equal(t, "Ivysaur", name)
}

func TestCache_LoaderErrors(t *testing.T) {
	boom := errors.New("boom")
	c := catalog.New(func(context.Context) (map[int]string, error) { return nil, boom }, nil)
	_, err := c.Names(context.Background())
	assert.ErrorIs(t, err, boom)

	empty := catalog.New(func(context.Context) (map[int]string, error) { return map[int]string{}, nil }, nil)
	_, err = empty.Names(context.Background())
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)
}

func TestBuildRoster(t *testing.T) {
	now := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	r := catalog.BuildRoster(roster.NewDexSet(2), 3, map[int]string{1: "Bulbasaur", 2: "Ivysaur"}, now)

	require.Len(t, r.Creatures, 3)
	assert.Equal(t, roster.Creature{DexNumber: 2, Name: "Ivysaur", IsLucky: true}, r.Creatures[1])
	assert.Equal(t, "Creature 3", r.Creatures[2].Name)
	assert.Equal(t, now, r.LastUpdated)
}

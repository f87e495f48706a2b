// Package catalog resolves dex numbers to species names.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/utils"
)

// ErrEmptyCatalog is returned when a loader yields no names.
var ErrEmptyCatalog = errors.New("species catalog is empty")

// Loader fetches the full dex-to-name mapping.
type Loader func(ctx context.Context) (map[int]string, error)

// Store persists a loaded catalog between runs.
type Store interface {
	SaveCatalog(ctx context.Context, names map[int]string) error
	LoadCatalog(ctx context.Context) (map[int]string, error)
}

// Cache memoizes a catalog in memory, backed by an optional Store.
type Cache struct {
	load  Loader
	store Store

	group singleflight.Group

	mu    sync.RWMutex
	names map[int]string
}

// New returns a cache around load. store may be nil.
func New(load Loader, store Store) *Cache {
	return &Cache{load: load, store: store}
}

// Names returns the catalog, loading it on first use. The store is consulted
// before the loader.
func (c *Cache) Names(ctx context.Context) (map[int]string, error) {
	if names := c.cached(); names != nil {
		return names, nil
	}
	v, err, _ := c.group.Do("names", func() (any, error) {
		if names := c.cached(); names != nil {
			return names, nil
		}
		if c.store != nil {
			names, err := c.store.LoadCatalog(ctx)
			if err != nil {
				utils.Log.WithError(err).Warn("reading stored catalog")
			} else if len(names) > 0 {
				c.set(names)
				return names, nil
			}
		}
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]string), nil
}

// Refresh reloads the catalog from the loader, bypassing memory and store.
func (c *Cache) Refresh(ctx context.Context) (map[int]string, error) {
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]string), nil
}

// Name resolves dex from the in-memory catalog only. It never loads.
func (c *Cache) Name(dex int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[dex]
	return name, ok
}

// Invalidate drops the in-memory catalog.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.names = nil
	c.mu.Unlock()
}

func (c *Cache) cached() map[int]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names
}

func (c *Cache) set(names map[int]string) {
	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
}

func (c *Cache) fetch(ctx context.Context) (map[int]string, error) {
	if c.load == nil {
		return nil, errors.New("catalog loader not configured")
	}
	names, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading species catalog: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}
	if c.store != nil {
		if err := c.store.SaveCatalog(ctx, names); err != nil {
			utils.Log.WithError(err).Warn("saving catalog")
		}
	}
	c.set(names)
	return names, nil
}

// SpeciesFetcher returns the raw species listing.
type SpeciesFetcher interface {
	FetchSpecies(ctx context.Context) ([]byte, error)
}

var reSpeciesURL = regexp.MustCompile(`/pokemon-species/(\d+)/?$`)

// PokeAPILoader reads the species listing from f.
func PokeAPILoader(f SpeciesFetcher) Loader {
	return func(ctx context.Context) (map[int]string, error) {
		body, err := f.FetchSpecies(ctx)
		if err != nil {
			return nil, err
		}
		return ParseSpecies(body)
	}
}

// ParseSpecies extracts dex numbers and display names from a species
// listing of the form {"results":[{"name":"mr-mime","url":".../122/"}]}.
func ParseSpecies(body []byte) (map[int]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("species listing is not valid JSON")
	}
	names := make(map[int]string)
	for _, item := range gjson.GetBytes(body, "results").Array() {
		m := reSpeciesURL.FindStringSubmatch(item.Get("url").String())
		if m == nil {
			continue
		}
		dex, err := strconv.Atoi(m[1])
		if err != nil || dex <= 0 {
			continue
		}
		if name := displayName(item.Get("name").String()); name != "" {
			names[dex] = name
		}
	}
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}
	return names, nil
}

func displayName(slug string) string {
	parts := strings.Split(slug, "-")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}

// BuildRoster makes a full 1..maxDex roster with lucky flags from lucky and
// names from names, falling back to placeholders.
func BuildRoster(lucky roster.DexSet, maxDex int, names map[int]string, now time.Time) roster.Roster {
	creatures := make([]roster.Creature, 0, maxDex)
	for dex := 1; dex <= maxDex; dex++ {
		name, ok := names[dex]
		if !ok || name == "" {
			name = roster.PlaceholderName(dex)
		}
		creatures = append(creatures, roster.Creature{DexNumber: dex, Name: name, IsLucky: lucky.Has(dex)})
	}
	return roster.New(creatures, now)
}

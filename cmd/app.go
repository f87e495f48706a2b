package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tayloree/luckydex/internal/catalog"
	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/history"
	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/storage"
	"github.com/tayloree/luckydex/internal/utils"
)

// nowFunc is the clock used by commands; tests pin it.
var nowFunc = time.Now

// app bundles the resources one command invocation needs.
type app struct {
	cfg    settings
	db     *storage.DB
	client *feed.Client
	now    time.Time
}

func openApp() (*app, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		return nil, invalidArgsError("no database path configured", "luckydex --db ~/.luckydex/luckydex.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	utils.Log.WithField("db", cfg.DBPath).Debug("opened database")
	return &app{
		cfg:    cfg,
		db:     db,
		client: feed.NewClientWithBaseURLs(cfg.FeedsBaseURL, cfg.CatalogURL),
		now:    nowFunc(),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		utils.Log.WithError(err).Warn("closing database")
	}
}

func (a *app) horizon() time.Duration {
	return time.Duration(a.cfg.UpcomingDays) * 24 * time.Hour
}

func (a *app) horizonEnd() time.Time {
	h := a.horizon()
	if h <= 0 {
		h = feed.DefaultHorizon
	}
	return a.now.Add(h)
}

func (a *app) roster(ctx context.Context) (roster.Roster, error) {
	r, err := a.db.LoadRoster(ctx)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(r.Creatures) == 0) {
		return roster.Roster{}, noRosterError()
	}
	if err != nil {
		return roster.Roster{}, fmt.Errorf("loading roster: %w", err)
	}
	return r, nil
}

// partner returns the stored partner, or nil when none is saved.
func (a *app) partner(ctx context.Context) (*roster.Partner, error) {
	p, err := a.db.LoadPartner(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading partner: %w", err)
	}
	return &p, nil
}

func (a *app) catalog() *catalog.Cache {
	return catalog.New(catalog.PokeAPILoader(a.client), a.db)
}

// overlay reads the newest history snapshot. A missing snapshot is normal.
func (a *app) overlay() map[string]feed.ExtraData {
	if a.cfg.HistoryDir == "" {
		return nil
	}
	overlay, err := history.LoadOverlay(a.cfg.HistoryDir)
	if err != nil {
		if !errors.Is(err, history.ErrNoSnapshot) {
			utils.Log.WithError(err).Warn("ignoring history overlay")
		}
		return nil
	}
	utils.Log.WithField("events", len(overlay)).Debug("loaded history overlay")
	return overlay
}

func (a *app) feeds(ctx context.Context) (feed.Data, error) {
	data, err := a.client.FetchAll(ctx)
	if err != nil {
		return feed.Data{}, upstreamError("fetching feeds", err)
	}
	data.Events = feed.MergeEnrichment(data.Events, a.overlay())
	return data, nil
}

func (a *app) events(ctx context.Context) ([]feed.Event, error) {
	events, err := a.client.FetchEvents(ctx)
	if err != nil {
		return nil, upstreamError("fetching feeds", err)
	}
	return feed.MergeEnrichment(events, a.overlay()), nil
}

// partnerNames resolves catalog names for partner placeholders. Catalog
// failures degrade to placeholder names.
func (a *app) partnerNames(ctx context.Context) func(int) (string, bool) {
	names, err := a.catalog().Names(ctx)
	if err != nil {
		utils.Log.WithError(err).Warn("species catalog unavailable; using placeholder names")
		return nil
	}
	return func(dex int) (string, bool) {
		n, ok := names[dex]
		return n, ok
	}
}

type priorityRun struct {
	Roster  roster.Roster
	Partner *roster.Partner
	Entries []priority.Entry
}

func (a *app) priorities(ctx context.Context, usePartner, includeUpcoming bool) (priorityRun, error) {
	r, err := a.roster(ctx)
	if err != nil {
		return priorityRun{}, err
	}
	var p *roster.Partner
	if usePartner {
		if p, err = a.partner(ctx); err != nil {
			return priorityRun{}, err
		}
	}
	data, err := a.feeds(ctx)
	if err != nil {
		return priorityRun{}, err
	}

	opts := priority.Options{
		IncludeUpcoming: includeUpcoming,
		Now:             a.now,
		Horizon:         a.horizon(),
		MaxDex:          roster.MaxDex,
	}
	if p != nil {
		opts.Partner = p.Set()
		opts.Names = a.partnerNames(ctx)
	}
	entries := priority.Score(r, data, opts)
	utils.Log.WithField("entries", len(entries)).Debug("scored roster")
	return priorityRun{Roster: r, Partner: p, Entries: entries}, nil
}

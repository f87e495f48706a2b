// Package history writes daily feed snapshots with scraped event
// enrichment and reads the newest one back as an overlay.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/scrape"
	"github.com/tayloree/luckydex/internal/utils"
)

const (
	// KeepDays is how many daily snapshots survive pruning.
	KeepDays = 7
	// IndexFile lists the retained snapshots, newest first.
	IndexFile = "index.json"

	dateLayout         = "2006-01-02"
	defaultConcurrency = 4
)

var reSnapshotFile = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.json$`)

// ErrNoSnapshot is returned when a directory holds no snapshot.
var ErrNoSnapshot = errors.New("no history snapshot found")

// Fetcher supplies the feeds and event pages.
type Fetcher interface {
	FetchAll(ctx context.Context) (feed.Data, error)
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Snapshot is one day's feeds with enrichment applied.
type Snapshot struct {
	Date        string    `json:"date"`
	GeneratedAt time.Time `json:"generatedAt"`
	Source      string    `json:"source"`
	Data        feed.Data `json:"data"`
}

// IndexEntry points at one snapshot file.
type IndexEntry struct {
	Date string `json:"date"`
	Path string `json:"path"`
}

// Index describes the retained snapshots.
type Index struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	KeepDays    int          `json:"keepDays"`
	Snapshots   []IndexEntry `json:"snapshots"`
}

// Builder produces and maintains a snapshot directory.
type Builder struct {
	Fetcher     Fetcher
	Dir         string
	Source      string
	KeepDays    int
	Concurrency int
	Now         func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}

func (b *Builder) keepDays() int {
	if b.KeepDays > 0 {
		return b.KeepDays
	}
	return KeepDays
}

// Build fetches all feeds and enriches events from their pages.
func (b *Builder) Build(ctx context.Context) (Snapshot, error) {
	data, err := b.Fetcher.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	data.Events = EnrichEvents(ctx, data.Events, data.Raids, b.Fetcher.FetchPage, limit)

	now := b.now()
	return Snapshot{
		Date:        now.Format(dateLayout),
		GeneratedAt: now,
		Source:      b.Source,
		Data:        data,
	}, nil
}

// Run builds today's snapshot, writes it, prunes old ones and rewrites the
// index. It returns the snapshot path.
func (b *Builder) Run(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating history dir: %w", err)
	}
	snap, err := b.Build(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(b.Dir, snap.Date+".json")
	if err := writeJSON(path, snap); err != nil {
		return "", err
	}
	utils.Log.WithField("path", path).Info("wrote history snapshot")

	now := b.now()
	removed, err := Prune(b.Dir, b.keepDays(), now)
	if err != nil {
		return "", err
	}
	for _, r := range removed {
		utils.Log.WithField("file", r).Debug("pruned snapshot")
	}
	if _, err := WriteIndex(b.Dir, b.keepDays(), now); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// snapshotFiles lists snapshot file names in dir, oldest first.
func snapshotFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && reSnapshotFile.MatchString(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Prune removes snapshots dated before the keepDays window ending at now.
func Prune(dir string, keepDays int, now time.Time) ([]string, error) {
	files, err := snapshotFiles(dir)
	if err != nil {
		return nil, err
	}
	y, m, d := now.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(keepDays - 1))

	var removed []string
	for _, f := range files {
		day, err := time.Parse(dateLayout, f[:len(dateLayout)])
		if err != nil || !day.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, f)); err != nil {
			return removed, err
		}
		removed = append(removed, f)
	}
	return removed, nil
}

// WriteIndex rewrites the index for the snapshots currently in dir.
func WriteIndex(dir string, keepDays int, now time.Time) (Index, error) {
	files, err := snapshotFiles(dir)
	if err != nil {
		return Index{}, err
	}
	idx := Index{GeneratedAt: now.UTC(), KeepDays: keepDays, Snapshots: []IndexEntry{}}
	for i := len(files) - 1; i >= 0; i-- {
		idx.Snapshots = append(idx.Snapshots, IndexEntry{Date: files[i][:len(dateLayout)], Path: files[i]})
	}
	return idx, writeJSON(filepath.Join(dir, IndexFile), idx)
}

// LoadLatest reads the newest snapshot in dir.
func LoadLatest(dir string) (Snapshot, error) {
	name, err := latestFile(dir)
	if err != nil {
		return Snapshot{}, err
	}
	body, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	return snap, nil
}

// latestFile prefers the index and falls back to listing the directory.
func latestFile(dir string) (string, error) {
	if body, err := os.ReadFile(filepath.Join(dir, IndexFile)); err == nil {
		var idx Index
		if err := json.Unmarshal(body, &idx); err == nil && len(idx.Snapshots) > 0 {
			return filepath.Base(idx.Snapshots[0].Path), nil
		}
	}
	files, err := snapshotFiles(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSnapshot
		}
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoSnapshot
	}
	return files[len(files)-1], nil
}

// LoadOverlay returns the newest snapshot's event enrichment keyed by event
// ID, for feed.MergeEnrichment.
func LoadOverlay(dir string) (map[string]feed.ExtraData, error) {
	snap, err := LoadLatest(dir)
	if err != nil {
		return nil, err
	}
	overlay := make(map[string]feed.ExtraData)
	for _, ev := range snap.Data.Events {
		if ev.EventID != "" && feed.ShouldIncludeOverlay(ev) {
			overlay[ev.EventID] = *ev.ExtraData
		}
	}
	return overlay, nil
}

// PageFunc fetches an event page body.
type PageFunc func(ctx context.Context, url string) ([]byte, error)

// EnrichEvents scrapes event pages for events missing generic data and
// fills raid-themed events that list no bosses. Page failures are logged
// and leave the event as it was. events is not modified.
func EnrichEvents(ctx context.Context, events []feed.Event, raids []feed.RaidBoss, fetch PageFunc, limit int) []feed.Event {
	known := knownRaidNames(raids)
	out := make([]feed.Event, len(events))
	copy(out, events)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range out {
		ev := out[i]
		needGeneric := ev.Link != "" && (ev.ExtraData == nil || ev.ExtraData.Generic == nil)
		needBosses := ev.IsRaidEvent() && !ev.HasBosses()
		if !needGeneric && !needBosses {
			continue
		}
		g.Go(func() error {
			out[i] = enrichEvent(gctx, ev, known, fetch, needGeneric, needBosses)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func knownRaidNames(raids []feed.RaidBoss) []string {
	names := make([]string, 0, len(raids))
	for _, r := range raids {
		names = append(names, r.Name)
	}
	return scrape.WithoutGeneric(scrape.DedupeNames(names))
}

func enrichEvent(ctx context.Context, ev feed.Event, known []string, fetch PageFunc, needGeneric, needBosses bool) feed.Event {
	log := utils.Log.WithField("event", ev.EventID)

	var html []byte
	if ev.Link != "" {
		body, err := fetch(ctx, ev.Link)
		if err != nil {
			log.WithError(err).Warn("event page fetch failed")
		} else {
			html = body
		}
	}

	extra := feed.ExtraData{}
	if ev.ExtraData != nil {
		extra = *ev.ExtraData
	}

	var page scrape.Page
	if html != nil {
		p, err := scrape.ParseHTML(html)
		if err != nil {
			log.WithError(err).Warn("event page parse failed")
		} else {
			page = p
		}
	}

	if needGeneric && (len(page.Spawns) > 0 || len(page.Eggs) > 0 || len(page.Research) > 0) {
		extra.Generic = page.Generic()
	}

	if needBosses {
		if bosses := featuredBosses(ev, html, page, known); len(bosses) > 0 {
			rb := feed.RaidBattles{}
			if extra.RaidBattles != nil {
				rb = *extra.RaidBattles
			}
			rb.Bosses = bosses
			if rb.Shinies == nil {
				rb.Shinies = []feed.NamedImage{}
			}
			extra.RaidBattles = &rb
		}
	}

	if extra.Generic == nil && extra.RaidBattles == nil {
		return ev
	}
	ev.ExtraData = &extra
	return ev
}

// featuredBosses prefers embedded boss JSON, then the raids section, then
// known raid names in the page text, and always adds names inferred from
// the event title and ID.
func featuredBosses(ev feed.Event, html []byte, page scrape.Page, known []string) []feed.RaidBattleBoss {
	var scraped []string
	if html != nil {
		scraped = scrape.BossNamesFromJSON(html)
		if len(scraped) == 0 {
			for _, b := range page.RaidBosses {
				scraped = append(scraped, b.Name)
			}
		}
		if len(scraped) == 0 {
			scraped = scrape.NamesInText(html, known)
		}
	}

	names := scrape.WithoutGeneric(scrape.DedupeNames(append(scraped, scrape.Featured(ev.Name, ev.EventID)...)))
	bosses := make([]feed.RaidBattleBoss, 0, len(names))
	for _, n := range names {
		bosses = append(bosses, feed.RaidBattleBoss{Name: n})
	}
	return bosses
}

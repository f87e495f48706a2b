package priority

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/match"
	"github.com/tayloree/luckydex/internal/roster"
)

// Points per category.
const (
	eventSpawnPoints    = 4
	eventResearchPoints = 2
	eventEggPoints      = 1
	upcomingPoints      = 1
	researchPoints      = 2
	eggPoints           = 1
	shadowRaidPoints    = 2
	rocketLeaderPoints  = 2
	rocketGruntPoints   = 1
)

const (
	labelEventSpawn    = "Event Spawn"
	labelEventResearch = "Event Research"
	labelUpcoming      = "Upcoming"
	labelResearch      = "Research"
	unknownEggDistance = "unknown"
)

// Options tune a scoring pass.
type Options struct {
	// Partner is the partner's lucky set; nil disables classification.
	Partner roster.DexSet
	// IncludeUpcoming scores events starting within Horizon.
	IncludeUpcoming bool
	// Now is the reference time for event windows.
	Now time.Time
	// Horizon bounds upcoming events; zero means feed.DefaultHorizon.
	Horizon time.Duration
	// MaxDex bounds partner placeholders; zero means roster.MaxDex.
	MaxDex int
	// Names resolves display names for partner-only placeholders.
	Names func(dex int) (string, bool)
}

// TierScore maps a raid tier to points: 5 for mega or five-star, 4 for
// three-star, 3 otherwise.
func TierScore(tier string) int {
	switch {
	case strings.Contains(tier, "Mega"), strings.Contains(tier, "5"):
		return 5
	case strings.Contains(tier, "3"):
		return 4
	default:
		return 3
	}
}

// IsShadowRaid reports whether the boss is a shadow raid.
func IsShadowRaid(r feed.RaidBoss) bool {
	return strings.Contains(strings.ToLower(r.Tier), "shadow") ||
		strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Name)), "shadow ")
}

// IsLeaderLineup reports whether a rocket lineup is a leader or the boss.
func IsLeaderLineup(l feed.RocketLineup) bool {
	return strings.Contains(l.Title, "Leader") || strings.Contains(l.Title, "Boss")
}

func shadowLabel(tier string) string {
	if strings.Contains(strings.ToLower(tier), "shadow") {
		return tier
	}
	return "Shadow " + tier
}

func rocketLabel(l feed.RocketLineup) string {
	if IsLeaderLineup(l) {
		return l.Name
	}
	if l.Type == "" {
		return "Rocket Grunt"
	}
	return "Rocket " + l.Type
}

// Score ranks the creatures missing from r (and from the partner, when
// given) by availability across feeds. Inputs are not modified.
func Score(r roster.Roster, feeds feed.Data, opts Options) []Entry {
	s := newScorer(r, opts)

	s.scoreRaids(feeds.Raids)

	horizon := opts.Horizon
	if horizon == 0 {
		horizon = feed.DefaultHorizon
	}
	part := feed.Partition(feeds.Events, opts.Now, opts.Now.Add(horizon))
	for _, ev := range part.Active {
		s.scoreActiveEvent(ev)
	}
	if opts.IncludeUpcoming {
		for _, ev := range part.Upcoming {
			s.scoreUpcomingEvent(ev)
		}
	}

	s.scoreResearch(feeds.Research)
	s.scoreEggs(feeds.Eggs)
	s.scoreRockets(feeds.Rockets)

	return s.result(opts.Partner != nil)
}

type scorer struct {
	index        *match.Index
	neededBy     map[int]NeededBy
	placeholders map[int]bool

	entries map[int]*Entry
	order   []int
	seen    map[string]struct{}
}

func newScorer(r roster.Roster, opts Options) *scorer {
	s := &scorer{
		neededBy:     map[int]NeededBy{},
		placeholders: map[int]bool{},
		entries:      map[int]*Entry{},
		seen:         map[string]struct{}{},
	}
	s.index = match.NewIndex(s.buildPool(r, opts))
	return s
}

// buildPool returns the creatures worth scoring. Without a partner that is
// the user's non-lucky creatures. With a partner it is every dex number at
// least one side lacks.
func (s *scorer) buildPool(r roster.Roster, opts Options) []roster.Creature {
	if opts.Partner == nil {
		return r.Missing()
	}

	maxDex := opts.MaxDex
	if maxDex == 0 {
		maxDex = roster.MaxDex
	}
	userLucky := r.LuckySet(maxDex)
	known := make(map[int]roster.Creature, len(r.Creatures))
	for _, c := range r.Creatures {
		known[c.DexNumber] = c
	}

	var pool []roster.Creature
	for dex := 1; dex <= maxDex; dex++ {
		userHas, partnerHas := userLucky.Has(dex), opts.Partner.Has(dex)
		if userHas && partnerHas {
			continue
		}

		c, ok := known[dex]
		if !ok {
			c = roster.Creature{DexNumber: dex, Name: placeholderName(dex, opts.Names)}
			s.placeholders[dex] = true
		}
		pool = append(pool, c)

		switch {
		case !userHas && !partnerHas:
			s.neededBy[dex] = NeededByBoth
		case !userHas:
			s.neededBy[dex] = NeededByYou
		default:
			s.neededBy[dex] = NeededByPartner
		}
	}
	return pool
}

func placeholderName(dex int, names func(int) (string, bool)) string {
	if names != nil {
		if name, ok := names(dex); ok && name != "" {
			return name
		}
	}
	return roster.PlaceholderName(dex)
}

func (s *scorer) lookup(sourceName string) (roster.Creature, bool) {
	if strings.TrimSpace(sourceName) == "" {
		return roster.Creature{}, false
	}
	return s.index.Lookup(match.BaseName(sourceName))
}

// once reports whether every key is new. Keys are recorded only when none
// was seen before.
func (s *scorer) once(keys ...string) bool {
	for _, key := range keys {
		if _, dup := s.seen[key]; dup {
			return false
		}
	}
	for _, key := range keys {
		s.seen[key] = struct{}{}
	}
	return true
}

func (s *scorer) add(c roster.Creature, points int, src Source) {
	e, ok := s.entries[c.DexNumber]
	if !ok {
		e = &Entry{
			DexNumber:      c.DexNumber,
			Name:           c.Name,
			NormalizedName: match.Normalize(c.Name),
			NeededBy:       s.neededBy[c.DexNumber],
			Placeholder:    s.placeholders[c.DexNumber],
		}
		s.entries[c.DexNumber] = e
		s.order = append(s.order, c.DexNumber)
	}
	e.Score += points
	e.Sources = append(e.Sources, src)
}

func (s *scorer) scoreRaids(raids []feed.RaidBoss) {
	for _, raid := range raids {
		if strings.TrimSpace(raid.Tier) == "" {
			continue
		}
		c, ok := s.lookup(raid.Name)
		if !ok {
			continue
		}
		if IsShadowRaid(raid) {
			s.add(c, shadowRaidPoints, Source{Type: SourceShadowRaid, Label: shadowLabel(raid.Tier), Detail: raid.Name})
			continue
		}
		s.add(c, TierScore(raid.Tier), Source{Type: SourceRaid, Label: raid.Tier, Detail: raid.Name})
	}
}

func eventKey(ev feed.Event) string {
	if ev.EventID != "" {
		return ev.EventID
	}
	return ev.Name
}

func eventSourceKey(ev feed.Event, sourceName string, typ SourceType) string {
	return strings.Join([]string{"event", eventKey(ev), match.Normalize(match.BaseName(sourceName)), string(typ)}, "|")
}

func eggKey(c roster.Creature, distance string) string {
	return fmt.Sprintf("egg|%d|%s", c.DexNumber, match.Normalize(distance))
}

// addEventSource scores a per-event source once per (event, name, category).
func (s *scorer) addEventSource(ev feed.Event, sourceName string, points int, src Source) {
	c, ok := s.lookup(sourceName)
	if !ok || !s.once(eventSourceKey(ev, sourceName, src.Type)) {
		return
	}
	s.add(c, points, src)
}

func (s *scorer) scoreActiveEvent(ev feed.Event) {
	en := ev.Enrichment()
	if en.Kind == feed.EnrichmentNone {
		return
	}
	// Enriched spawns and the raid-boss proxy share the event category, so
	// one event never scores a creature twice.
	if en.HasSpawns {
		for _, name := range en.SpawnNames() {
			s.addEventSource(ev, name, eventSpawnPoints, Source{Type: SourceEvent, Label: labelEventSpawn, Detail: ev.Name})
		}
	}

	for _, task := range en.Research {
		for _, reward := range task.Rewards {
			s.addEventSource(ev, reward.Name, eventResearchPoints, Source{Type: SourceResearch, Label: labelEventResearch, Detail: ev.Name})
		}
	}

	for _, egg := range en.Eggs {
		distance := strings.TrimSpace(egg.EggDistance)
		if distance == "" {
			distance = unknownEggDistance
		}
		// One egg per event and name, and one per creature and distance across feeds.
		c, ok := s.lookup(egg.Name)
		if !ok || !s.once(eventSourceKey(ev, egg.Name, SourceEgg), eggKey(c, distance)) {
			continue
		}
		s.add(c, eventEggPoints, Source{Type: SourceEgg, Label: distance, Detail: ev.Name})
	}
}

func (s *scorer) scoreUpcomingEvent(ev feed.Event) {
	typ := SourceUpcoming
	if ev.IsRaidEvent() {
		typ = SourceUpcomingRaid
	}
	src := Source{
		Type:         typ,
		Label:        labelUpcoming,
		Detail:       ev.Name,
		Availability: ev.Availability(),
		Link:         ev.Link,
	}
	for _, name := range ev.Enrichment().SpawnNames() {
		s.addEventSource(ev, name, upcomingPoints, src)
	}
}

func (s *scorer) scoreResearch(tasks []feed.ResearchTask) {
	for _, task := range tasks {
		for _, reward := range task.Rewards {
			c, ok := s.lookup(reward.Name)
			if !ok {
				continue
			}
			s.add(c, researchPoints, Source{Type: SourceResearch, Label: labelResearch, Detail: task.Text})
		}
	}
}

func (s *scorer) scoreEggs(eggs []feed.EggEntry) {
	for _, egg := range eggs {
		c, ok := s.lookup(egg.Name)
		if !ok || !s.once(eggKey(c, egg.EggType)) {
			continue
		}
		s.add(c, eggPoints, Source{Type: SourceEgg, Label: egg.EggType, Detail: egg.Name})
	}
}

func (s *scorer) scoreRockets(lineups []feed.RocketLineup) {
	for _, lineup := range lineups {
		points := rocketGruntPoints
		if IsLeaderLineup(lineup) {
			points = rocketLeaderPoints
		}
		src := Source{
			Type:   SourceRocket,
			Label:  rocketLabel(lineup),
			Detail: fmt.Sprintf("%s: %s", lineup.Title, lineup.Name),
		}

		slotSeen := map[string]struct{}{}
		for _, slot := range lineup.Slots() {
			if !slot.IsEncounter {
				continue
			}
			key := match.Normalize(slot.Name)
			if _, dup := slotSeen[key]; dup {
				continue
			}
			slotSeen[key] = struct{}{}

			if c, ok := s.lookup(slot.Name); ok {
				s.add(c, points, src)
			}
		}
	}
}

func (s *scorer) result(withPartner bool) []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, dex := range s.order {
		if e := s.entries[dex]; e.Score > 0 {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !withPartner {
			return false
		}
		if ri, rj := out[i].NeededBy.rank(), out[j].NeededBy.rank(); ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

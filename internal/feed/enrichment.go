package feed

import "strings"

// EnrichmentKind says which payload an event carries.
type EnrichmentKind int

const (
	// EnrichmentNone means the event has no usable creature lists.
	EnrichmentNone EnrichmentKind = iota
	// EnrichmentGeneric means page-scraped spawns, eggs or research exist.
	EnrichmentGeneric
	// EnrichmentRaidBosses means only the legacy raid-boss list exists.
	EnrichmentRaidBosses
)

func (k EnrichmentKind) String() string {
	switch k {
	case EnrichmentGeneric:
		return "generic"
	case EnrichmentRaidBosses:
		return "raid-bosses"
	default:
		return "none"
	}
}

// Enrichment is the resolved view of an event's optional payloads.
type Enrichment struct {
	Kind      EnrichmentKind
	HasSpawns bool
	Spawns    []EventSpawn
	Eggs      []EventEgg
	Research  []EventResearchTask
	Bosses    []RaidBattleBoss
}

// Enrichment resolves the event's extra data into a single variant.
func (e Event) Enrichment() Enrichment {
	var out Enrichment
	if e.ExtraData == nil {
		return out
	}
	if g := e.ExtraData.Generic; g != nil {
		out.HasSpawns = g.HasSpawns != nil && *g.HasSpawns
		out.Spawns = g.Spawns
		out.Eggs = g.EventEggs
		out.Research = g.EventResearch
	}
	if rb := e.ExtraData.RaidBattles; rb != nil {
		out.Bosses = rb.Bosses
	}

	switch {
	case len(out.Spawns) > 0 || len(out.Eggs) > 0 || len(out.Research) > 0:
		out.Kind = EnrichmentGeneric
	case len(out.Bosses) > 0:
		out.Kind = EnrichmentRaidBosses
	}
	return out
}

// SpawnNames returns the enriched spawn list, or the raid-boss list when no
// enriched spawns exist.
func (en Enrichment) SpawnNames() []string {
	var names []string
	if len(en.Spawns) > 0 {
		for _, s := range en.Spawns {
			names = append(names, s.Name)
		}
		return names
	}
	for _, b := range en.Bosses {
		names = append(names, b.Name)
	}
	return names
}

// raidEventTypes are event types that are raid-themed regardless of name.
var raidEventTypes = map[string]struct{}{
	"raid-day":        {},
	"raid-battles":    {},
	"raid-hour":       {},
	"max-battles":     {},
	"elite-raids":     {},
	"shadow-raid-day": {},
	"shadow-raids":    {},
}

// IsRaidEvent reports whether the event is raid-themed.
func (e Event) IsRaidEvent() bool {
	if _, ok := raidEventTypes[e.EventType]; ok {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), "raid")
}

// HasBosses reports whether the legacy raid-boss list is non-empty.
func (e Event) HasBosses() bool {
	return e.ExtraData != nil && e.ExtraData.RaidBattles != nil && len(e.ExtraData.RaidBattles.Bosses) > 0
}

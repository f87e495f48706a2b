package feed

// ShouldIncludeOverlay reports whether an event carries enrichment worth
// keeping in an overlay.
func ShouldIncludeOverlay(e Event) bool {
	return e.Enrichment().Kind != EnrichmentNone
}

// MergeEnrichment applies overlay extra data to events by event ID. Generic
// fields present in the overlay replace live ones. Overlay raid bosses are
// only used when the live event has none. The input slice is not modified.
func MergeEnrichment(events []Event, overlay map[string]ExtraData) []Event {
	if overlay == nil {
		return events
	}
	out := make([]Event, len(events))
	for i, e := range events {
		enriched, ok := overlay[e.EventID]
		if !ok {
			out[i] = e
			continue
		}
		out[i] = mergeEvent(e, enriched)
	}
	return out
}

func mergeEvent(e Event, enriched ExtraData) Event {
	var extra ExtraData
	if e.ExtraData != nil {
		extra = *e.ExtraData
	}

	var generic GenericData
	if extra.Generic != nil {
		generic = *extra.Generic
	}
	if g := enriched.Generic; g != nil {
		if g.HasSpawns != nil {
			generic.HasSpawns = g.HasSpawns
		}
		if g.HasFieldResearchTasks != nil {
			generic.HasFieldResearchTasks = g.HasFieldResearchTasks
		}
		if g.Spawns != nil {
			generic.Spawns = g.Spawns
		}
		if g.EventEggs != nil {
			generic.EventEggs = g.EventEggs
		}
		if g.EventResearch != nil {
			generic.EventResearch = g.EventResearch
		}
	}
	extra.Generic = &generic

	if enriched.RaidBattles != nil && !e.HasBosses() {
		rb := *enriched.RaidBattles
		extra.RaidBattles = &rb
	}

	e.ExtraData = &extra
	return e
}

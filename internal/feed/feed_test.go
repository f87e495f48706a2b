package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/luckydex/internal/feed"
)

func boolPtr(b bool) *bool { return &b }

func makeEvent(id, start, end string) feed.Event {
	return feed.Event{
		EventID:   id,
		Name:      "Event " + id,
		EventType: "event",
		Link:      "https://leekduck.com/events/" + id + "/",
		Start:     start,
		End:       end,
	}
}

func TestPartition_Boundaries(t *testing.T) {
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	horizon := now.Add(feed.DefaultHorizon)

	events := []feed.Event{
		makeEvent("starts-now", "2026-02-03T10:00:00.000Z", "2026-02-04T10:00:00.000Z"),
		makeEvent("ends-now", "2026-02-01T10:00:00.000Z", "2026-02-03T10:00:00.000Z"),
		makeEvent("past", "2026-01-01T10:00:00.000Z", "2026-01-02T10:00:00.000Z"),
		makeEvent("soon", "2026-02-05T10:00:00", "2026-02-06T10:00:00"),
		makeEvent("at-horizon", "2026-02-10T10:00:00.000Z", "2026-02-11T10:00:00.000Z"),
		makeEvent("far", "2026-03-01T10:00:00.000Z", "2026-03-02T10:00:00.000Z"),
		makeEvent("broken", "whenever", "2026-03-02T10:00:00.000Z"),
	}

	got := feed.Partition(events, now, horizon)

	assert.Equal(t, []string{"starts-now", "ends-now"}, ids(got.Active))
	assert.Equal(t, []string{"soon", "at-horizon"}, ids(got.Upcoming))

	unbounded := feed.Partition(events, now, time.Time{})
	assert.Equal(t, []string{"soon", "at-horizon", "far"}, ids(unbounded.Upcoming))
}

func ids(events []feed.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.EventID)
	}
	return out
}

func TestAvailability(t *testing.T) {
	multi := makeEvent("a", "2026-02-01T10:00:00.000Z", "2026-02-05T20:00:00.000Z")
	assert.Equal(t, "Feb 1 - Feb 5", multi.Availability())

	single := makeEvent("b", "2026-02-01T10:00:00", "2026-02-01T13:00:00")
	assert.Equal(t, "Feb 1", single.Availability())

	assert.Empty(t, makeEvent("c", "", "").Availability())
}

func TestIsRaidEvent(t *testing.T) {
	e := makeEvent("x", "", "")
	assert.False(t, e.IsRaidEvent())

	e.EventType = "raid-hour"
	assert.True(t, e.IsRaidEvent())

	e.EventType = "event"
	e.Name = "Legendary RAID Weekend"
	assert.True(t, e.IsRaidEvent())
}

func TestEnrichment_Variants(t *testing.T) {
	none := makeEvent("none", "", "")
	assert.Equal(t, feed.EnrichmentNone, none.Enrichment().Kind)

	raidOnly := makeEvent("raid", "", "")
	raidOnly.ExtraData = &feed.ExtraData{
		Generic:     &feed.GenericData{HasSpawns: boolPtr(true)},
		RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Mewtwo"}}},
	}
	en := raidOnly.Enrichment()
	assert.Equal(t, feed.EnrichmentRaidBosses, en.Kind)
	assert.True(t, en.HasSpawns)
	assert.Equal(t, []string{"Mewtwo"}, en.SpawnNames())

	generic := makeEvent("generic", "", "")
	generic.ExtraData = &feed.ExtraData{
		Generic: &feed.GenericData{
			HasSpawns: boolPtr(true),
			Spawns:    []feed.EventSpawn{{Name: "Pikachu"}},
		},
		RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Mewtwo"}}},
	}
	en = generic.Enrichment()
	assert.Equal(t, feed.EnrichmentGeneric, en.Kind)
	assert.Equal(t, []string{"Pikachu"}, en.SpawnNames())
}

func TestShouldIncludeOverlay_AcceptsRaidOnly(t *testing.T) {
	e := makeEvent("raid", "", "")
	e.ExtraData = &feed.ExtraData{RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Mewtwo"}}}}

	assert.True(t, feed.ShouldIncludeOverlay(e))
	assert.False(t, feed.ShouldIncludeOverlay(makeEvent("bare", "", "")))
}

func TestMergeEnrichment_GenericByEventID(t *testing.T) {
	live := makeEvent("event-1", "", "")
	live.ExtraData = &feed.ExtraData{Generic: &feed.GenericData{HasSpawns: boolPtr(true)}}
	events := []feed.Event{live}

	merged := feed.MergeEnrichment(events, map[string]feed.ExtraData{
		"event-1": {Generic: &feed.GenericData{Spawns: []feed.EventSpawn{{Name: "Pikachu", CanBeShiny: true}}}},
	})

	require.Len(t, merged, 1)
	g := merged[0].ExtraData.Generic
	require.NotNil(t, g)
	assert.Equal(t, "Pikachu", g.Spawns[0].Name)
	require.NotNil(t, g.HasSpawns)
	assert.True(t, *g.HasSpawns)
	assert.Nil(t, events[0].ExtraData.Generic.Spawns, "live events must not be mutated")
}

func TestMergeEnrichment_RaidBossesOnlyWhenLiveHasNone(t *testing.T) {
	bare := makeEvent("event-2", "", "")
	withBosses := makeEvent("event-3", "", "")
	withBosses.ExtraData = &feed.ExtraData{RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Kyogre"}}}}

	overlay := map[string]feed.ExtraData{
		"event-2": {RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Lugia", CanBeShiny: true}}}},
		"event-3": {RaidBattles: &feed.RaidBattles{Bosses: []feed.RaidBattleBoss{{Name: "Groudon"}}}},
	}

	merged := feed.MergeEnrichment([]feed.Event{bare, withBosses}, overlay)

	assert.Equal(t, "Lugia", merged[0].ExtraData.RaidBattles.Bosses[0].Name)
	assert.Equal(t, "Kyogre", merged[1].ExtraData.RaidBattles.Bosses[0].Name)
}

func TestMergeEnrichment_NilOverlay(t *testing.T) {
	events := []feed.Event{makeEvent("a", "", "")}
	assert.Equal(t, events, feed.MergeEnrichment(events, nil))
}

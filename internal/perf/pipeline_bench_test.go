package perf_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/filter"
	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/roster"
)

var benchNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// speciesName spells i in letters so names survive normalization intact.
func speciesName(i int) string {
	b := []byte("Mon")
	for n := i + 1; n > 0; n /= 26 {
		b = append(b, byte('a'+(n%26)))
	}
	return string(b)
}

func benchmarkRoster(count int) roster.Roster {
	creatures := make([]roster.Creature, 0, count)
	for i := range count {
		creatures = append(creatures, roster.Creature{
			DexNumber: i + 1,
			Name:      speciesName(i),
			IsLucky:   i%3 == 0,
		})
	}
	return roster.New(creatures, benchNow)
}

func benchmarkFeeds(count int) map[string]any {
	var raids []feed.RaidBoss
	var research []feed.ResearchTask
	var eggs []feed.EggEntry
	var rockets []feed.RocketLineup
	var events []feed.Event

	for i := 0; i < count; i += 7 {
		tier := "1-Star Raids"
		if i%5 == 0 {
			tier = "5-Star Raids"
		}
		raids = append(raids, feed.RaidBoss{Name: speciesName(i), Tier: tier})
	}
	for i := 1; i < count; i += 11 {
		research = append(research, feed.ResearchTask{
			Text:    fmt.Sprintf("Catch %d creatures", i%10+1),
			Rewards: []feed.ResearchReward{{Name: speciesName(i)}},
		})
	}
	for i := 2; i < count; i += 13 {
		eggs = append(eggs, feed.EggEntry{Name: speciesName(i), EggType: "7 km"})
	}
	for i := 3; i+2 < count; i += 97 {
		rockets = append(rockets, feed.RocketLineup{
			Name:          "Grunt",
			Type:          "Fire",
			FirstPokemon:  []feed.RocketSlot{{Name: speciesName(i), IsEncounter: true}},
			SecondPokemon: []feed.RocketSlot{{Name: speciesName(i + 1)}},
			ThirdPokemon:  []feed.RocketSlot{{Name: speciesName(i + 2)}},
		})
	}
	spawns := true
	for i := 0; i < 5; i++ {
		ev := feed.Event{
			EventID:   fmt.Sprintf("event-%d", i),
			Name:      fmt.Sprintf("Community Day %d", i),
			EventType: "community-day",
			Start:     benchNow.Add(-24 * time.Hour).Format("2006-01-02T15:04:05.000"),
			End:       benchNow.Add(48 * time.Hour).Format("2006-01-02T15:04:05.000"),
			ExtraData: &feed.ExtraData{Generic: &feed.GenericData{HasSpawns: &spawns}},
		}
		for j := i * 17; j < count && j < i*17+10; j++ {
			ev.ExtraData.Generic.Spawns = append(ev.ExtraData.Generic.Spawns, feed.EventSpawn{Name: speciesName(j)})
		}
		events = append(events, ev)
	}

	return map[string]any{
		"/events.min.json":        events,
		"/raids.min.json":         raids,
		"/research.min.json":      research,
		"/eggs.min.json":          eggs,
		"/rocketLineups.min.json": rockets,
	}
}

func setupPipelineServer(b *testing.B, count int) *feed.Client {
	b.Helper()

	payloads := map[string][]byte{}
	for path, v := range benchmarkFeeds(count) {
		body, err := json.Marshal(v)
		if err != nil {
			b.Fatalf("marshal %s: %v", path, err)
		}
		payloads[path] = body
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	b.Cleanup(server.Close)

	return feed.NewClientWithBaseURLs(server.URL, server.URL+"/species")
}

func runPipeline(b *testing.B, client *feed.Client, r roster.Roster) {
	b.Helper()

	data, err := client.FetchAll(context.Background())
	if err != nil {
		b.Fatalf("fetch feeds: %v", err)
	}

	entries := priority.Score(r, data, priority.Options{Now: benchNow, IncludeUpcoming: true})
	if len(entries) == 0 {
		b.Fatalf("score returned no entries")
	}

	filtered := filter.Apply(entries, filter.Options{
		Source:   "raid",
		MinScore: 3,
		Limit:    50,
	})
	if len(filtered) == 0 {
		b.Fatalf("filter returned no entries")
	}
	if err := display.PrintPrioritiesJSON(io.Discard, filtered); err != nil {
		b.Fatalf("print priorities json: %v", err)
	}
}

func BenchmarkFeedPipeline_1kRoster(b *testing.B) {
	client := setupPipelineServer(b, 1000)
	r := benchmarkRoster(1000)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		runPipeline(b, client, r)
	}
}

func BenchmarkScore_1kRoster(b *testing.B) {
	r := benchmarkRoster(1000)
	raw := benchmarkFeeds(1000)
	data := feed.Data{
		Events:   raw["/events.min.json"].([]feed.Event),
		Raids:    raw["/raids.min.json"].([]feed.RaidBoss),
		Research: raw["/research.min.json"].([]feed.ResearchTask),
		Eggs:     raw["/eggs.min.json"].([]feed.EggEntry),
		Rockets:  raw["/rocketLineups.min.json"].([]feed.RocketLineup),
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = priority.Score(r, data, priority.Options{Now: benchNow})
	}
}

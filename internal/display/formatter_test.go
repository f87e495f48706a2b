package display_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/trade"
)

func sampleEntries() []priority.Entry {
	return []priority.Entry{
		{
			DexNumber:      1,
			Name:           "Bulbasaur",
			NormalizedName: "bulbasaur",
			Score:          5,
			NeededBy:       priority.NeededByBoth,
			Sources: []priority.Source{
				{Type: priority.SourceEvent, Label: "Event Spawn", Detail: "Community Day"},
				{Type: priority.SourceEgg, Label: "2 km", Detail: "Bulbasaur"},
			},
		},
		{
			DexNumber:   4,
			Name:        "Creature 4",
			Score:       1,
			Placeholder: true,
			Sources: []priority.Source{
				{Type: priority.SourceUpcoming, Label: "Upcoming", Detail: "Fire Week", Availability: "Feb 5 - Feb 9"},
			},
		},
	}
}

func TestPrintPriorities_ContainsExpectedContent(t *testing.T) {
	var buf bytes.Buffer
	display.PrintPriorities(&buf, sampleEntries())
	output := buf.String()

	assert.Contains(t, output, "Lucky Priorities")
	assert.Contains(t, output, "2 creatures")
	assert.Contains(t, output, "#0001")
	assert.Contains(t, output, "Bulbasaur")
	assert.Contains(t, output, "score 5")
	assert.Contains(t, output, "[both]")
	assert.Contains(t, output, "Community Day")
	assert.Contains(t, output, "Feb 5 - Feb 9")
	assert.Contains(t, output, "Creature 4")
}

func TestPrintPrioritiesJSON(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, priority.Entry{DexNumber: 7, Name: "Squirtle", Score: 1})

	var buf bytes.Buffer
	require.NoError(t, display.PrintPrioritiesJSON(&buf, entries))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Bulbasaur", decoded[0]["name"])
	assert.Equal(t, "both", decoded[0]["neededBy"])
	assert.Equal(t, true, decoded[1]["placeholder"])
	assert.NotContains(t, decoded[2], "neededBy")
	assert.Equal(t, []any{}, decoded[2]["sources"])
}

func TestPrintCategorized(t *testing.T) {
	c := priority.Categorize(sampleEntries())

	var buf bytes.Buffer
	display.PrintCategorized(&buf, c)
	output := buf.String()
	assert.Contains(t, output, "Raids")
	assert.Contains(t, output, "nothing missing here right now")
	assert.Contains(t, output, "Eggs")

	buf.Reset()
	require.NoError(t, display.PrintCategorizedJSON(&buf, c))
	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["wild"], 2)
	assert.Len(t, decoded["eggs"], 1)
	assert.Empty(t, decoded["rocket"])
}

func TestPrintRaids(t *testing.T) {
	rows := []display.RaidRow{
		{Name: "Mew", Tier: "5-Star Raids", Needed: true, Trade: trade.NoteUntradeable},
		{Name: "Shadow Raikou", Tier: "Shadow 5-Star Raids", Shadow: true, Needed: true, Trade: trade.NotePurifySpecialTrade},
		{Name: "Pikachu", Tier: "1-Star Raids", Lucky: true},
	}

	var buf bytes.Buffer
	display.PrintRaids(&buf, rows)
	output := buf.String()
	assert.Contains(t, output, "3 bosses")
	assert.Contains(t, output, "Can't Trade (Mythical)")
	assert.Contains(t, output, "SHADOW")
	assert.Contains(t, output, "LUCKY")

	buf.Reset()
	require.NoError(t, display.PrintRaidsJSON(&buf, rows))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "untradeable", decoded[0]["tradeNote"])
	assert.Equal(t, "purify, then special trade", decoded[1]["tradeNote"])
	assert.NotContains(t, decoded[2], "tradeNote")
}

func TestSortRaidRows(t *testing.T) {
	rows := []display.RaidRow{
		{Name: "B", Tier: "5-Star Raids"},
		{Name: "A", Tier: "5-Star Raids"},
		{Name: "C", Tier: "5-Star Raids", Needed: true},
		{Name: "D", Tier: "1-Star Raids"},
	}
	display.SortRaidRows(rows)
	var got []string
	for _, r := range rows {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"D", "C", "A", "B"}, got)
}

func TestPrintEventsJSON(t *testing.T) {
	hasSpawns := true
	p := feed.Partitioned{
		Active: []feed.Event{{
			EventID:   "cd",
			Name:      "Community Day",
			EventType: "community-day",
			Start:     "2026-02-01T10:00:00.000Z",
			End:       "2026-02-01T17:00:00.000Z",
			ExtraData: &feed.ExtraData{Generic: &feed.GenericData{
				HasSpawns: &hasSpawns,
				Spawns:    []feed.EventSpawn{{Name: "Bulbasaur"}},
			}},
		}},
		Upcoming: []feed.Event{{EventID: "rd", Name: "Raid Day", Start: "2026-02-09T10:00:00.000Z", End: "2026-02-09T13:00:00.000Z"}},
	}

	var buf bytes.Buffer
	require.NoError(t, display.PrintEventsJSON(&buf, p))
	var decoded []display.EventJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []string{"Bulbasaur"}, decoded[0].Creatures)
	assert.Equal(t, "generic", decoded[0].Enrichment)
	assert.True(t, decoded[1].Upcoming)
	assert.True(t, decoded[1].RaidThemed)
	assert.Equal(t, []string{}, decoded[1].Creatures)

	buf.Reset()
	display.PrintEvents(&buf, p)
	assert.Contains(t, buf.String(), "Active Events")
	assert.Contains(t, buf.String(), "Feb 1")
}

func TestPrintRosterSummary(t *testing.T) {
	r := roster.New([]roster.Creature{
		{DexNumber: 1, Name: "Bulbasaur", IsLucky: true},
		{DexNumber: 2, Name: "Ivysaur"},
	}, time.Date(2026, 2, 3, 15, 4, 0, 0, time.UTC))
	p := roster.NewPartner(roster.NewDexSet(1, 2, 3), "Sam", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	display.PrintRosterSummary(&buf, r, &p)
	assert.Contains(t, buf.String(), "1 of 2 lucky, 1 missing")
	assert.Contains(t, buf.String(), "Sam")

	buf.Reset()
	require.NoError(t, display.PrintRosterSummaryJSON(&buf, r, nil))
	var decoded display.RosterJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Total)
	assert.Equal(t, 1, decoded.Missing)
	assert.Nil(t, decoded.Partner)
	assert.Equal(t, "Feb 3, 2026 3:04 PM", decoded.LastUpdated)
}

func TestPrintShare(t *testing.T) {
	s := display.ShareJSON{URL: "https://example.test/?lucky=AQI", Payload: "AQI", Checksum: "deadbeef", Count: 2}

	var buf bytes.Buffer
	display.PrintShare(&buf, s)
	assert.Contains(t, buf.String(), "https://example.test/?lucky=AQI")
	assert.Contains(t, buf.String(), "2 lucky")

	buf.Reset()
	require.NoError(t, display.PrintShareJSON(&buf, s))
	assert.JSONEq(t, `{"url":"https://example.test/?lucky=AQI","payload":"AQI","checksum":"deadbeef","count":2}`, buf.String())
}

func TestPrintCreaturesJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintCreaturesJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEntryMarkdown(t *testing.T) {
	md := display.EntryMarkdown(sampleEntries()[0])
	assert.Contains(t, md, "# #0001 Bulbasaur")
	assert.Contains(t, md, "**Needed by:** both")
	assert.Contains(t, md, "- **Event Spawn** (event): Community Day")

	rendered := display.RenderMarkdown(md, 60)
	assert.Contains(t, rendered, "Bulbasaur")
}

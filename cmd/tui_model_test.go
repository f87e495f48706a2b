package cmd

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayloree/luckydex/internal/filter"
	"github.com/tayloree/luckydex/internal/priority"
)

func entry(dex int, name string, score int, needed priority.NeededBy, types ...priority.SourceType) priority.Entry {
	e := priority.Entry{DexNumber: dex, Name: name, Score: score, NeededBy: needed}
	for _, t := range types {
		e.Sources = append(e.Sources, priority.Source{Type: t, Label: string(t)})
	}
	return e
}

func TestCanonicalSortMode(t *testing.T) {
	assert.Equal(t, "dex", canonicalSortMode("dex"))
	assert.Equal(t, "dex", canonicalSortMode("National"))
	assert.Equal(t, "name", canonicalSortMode("alpha"))
	assert.Equal(t, "", canonicalSortMode("score"))
	assert.Equal(t, "", canonicalSortMode("unknown"))
}

func TestBuildGroupedListItems_SourceSectionsWithoutPartner(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 5, "", priority.SourceRaid),
		entry(1, "Bulbasaur", 4, "", priority.SourceEvent),
		entry(150, "Mewtwo", 3, "", priority.SourceShadowRaid),
		entry(4, "Charmander", 1, "", priority.SourceEgg),
	}

	items, starts := buildGroupedListItems(entries)

	require.Len(t, items, 7)
	assert.Equal(t, []int{0, 3, 5}, starts)

	header, ok := items[0].(tuiGroupItem)
	require.True(t, ok)
	assert.Equal(t, groupRaids, header.name)
	assert.Equal(t, 2, header.count)
	assert.Equal(t, 1, header.ordinal)

	first, ok := items[1].(tuiEntryItem)
	require.True(t, ok)
	assert.Equal(t, "#0025 Pikachu", first.title)

	header2, ok := items[3].(tuiGroupItem)
	require.True(t, ok)
	assert.Equal(t, groupWild, header2.name)

	header3, ok := items[5].(tuiGroupItem)
	require.True(t, ok)
	assert.Equal(t, groupEggs, header3.name)
	assert.Equal(t, 3, header3.ordinal)
}

func TestBuildGroupedListItems_NeededBySectionsWithPartner(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 5, priority.NeededByYou, priority.SourceRaid),
		entry(1, "Bulbasaur", 4, priority.NeededByBoth, priority.SourceEvent),
		entry(7, "Squirtle", 2, priority.NeededByPartner, priority.SourceResearch),
	}

	items, starts := buildGroupedListItems(entries)

	require.Len(t, items, 6)
	assert.Equal(t, []int{0, 2, 4}, starts)
	assert.Equal(t, groupBoth, items[0].(tuiGroupItem).name)
	assert.Equal(t, groupYou, items[2].(tuiGroupItem).name)
	assert.Equal(t, groupPartner, items[4].(tuiGroupItem).name)
}

func TestBuildSourceChoices_AlwaysIncludesCurrent(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 3, "", priority.SourceRaid),
		entry(4, "Charmander", 1, "", priority.SourceEgg),
	}

	choices := buildSourceChoices(entries, "rocket")

	assert.Equal(t, "", choices[0])
	assert.Contains(t, choices, "raid")
	assert.Contains(t, choices, "egg")
	assert.Contains(t, choices, "rocket")
	assert.NotContains(t, choices, "research")
}

func TestBuildLimitChoices_KeepsCustomLimitSorted(t *testing.T) {
	assert.Equal(t, []int{0, 10, 25, 30, 50, 100}, buildLimitChoices(30))
	assert.Equal(t, []int{0, 10, 25, 50, 100}, buildLimitChoices(25))
}

func loadedModel(t *testing.T, entries []priority.Entry, hasPartner bool, opts filter.Options) priorityTUIModel {
	t.Helper()
	m := newLoadingTUIModel(tuiLoadConfig{
		load:        func() (tuiDataLoadedMsg, error) { return tuiDataLoadedMsg{}, nil },
		initialOpts: opts,
	})
	next, _ := m.Update(tuiDataLoadedMsg{rosterLabel: "2 of 4 lucky", entries: entries, hasPartner: hasPartner})
	next, _ = next.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(priorityTUIModel)
}

func key(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestPriorityTUIModel_LoadSelectsFirstEntry(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 5, "", priority.SourceRaid),
		entry(1, "Bulbasaur", 4, "", priority.SourceEvent),
	}

	m := loadedModel(t, entries, false, filter.Options{})

	assert.False(t, m.loading)
	assert.Equal(t, 2, m.visibleEntries)
	assert.Equal(t, "entry:25", m.selectedID)
	assert.Equal(t, []string{""}, m.neededChoices)
	assert.Contains(t, m.View(), "2 of 4 lucky")
}

func TestPriorityTUIModel_CyclesFiltersAndResets(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 5, priority.NeededByYou, priority.SourceRaid),
		entry(1, "Bulbasaur", 4, priority.NeededByBoth, priority.SourceEvent),
		entry(7, "Squirtle", 2, priority.NeededByPartner, priority.SourceResearch),
	}
	m := loadedModel(t, entries, true, filter.Options{})
	require.Len(t, m.neededChoices, 4)

	next, _ := m.Update(key("a"))
	m = next.(priorityTUIModel)
	assert.Equal(t, string(priority.NeededByBoth), m.opts.NeededBy)
	assert.Equal(t, 1, m.visibleEntries)

	next, _ = m.Update(key("s"))
	m = next.(priorityTUIModel)
	assert.Equal(t, "dex", m.opts.Sort)

	next, _ = m.Update(key("r"))
	m = next.(priorityTUIModel)
	assert.Equal(t, "", m.opts.NeededBy)
	assert.Equal(t, "", m.opts.Sort)
	assert.Equal(t, 3, m.visibleEntries)
}

func TestPriorityTUIModel_SectionJumps(t *testing.T) {
	entries := []priority.Entry{
		entry(25, "Pikachu", 5, "", priority.SourceRaid),
		entry(1, "Bulbasaur", 4, "", priority.SourceEvent),
		entry(4, "Charmander", 1, "", priority.SourceEgg),
	}
	m := loadedModel(t, entries, false, filter.Options{})

	next, _ := m.Update(key("]"))
	m = next.(priorityTUIModel)
	assert.Equal(t, "entry:1", m.selectedID)

	next, _ = m.Update(key("3"))
	m = next.(priorityTUIModel)
	assert.Equal(t, "entry:4", m.selectedID)

	next, _ = m.Update(key("["))
	m = next.(priorityTUIModel)
	assert.Equal(t, "entry:1", m.selectedID)
}

func TestPriorityTUIModel_LoadErrorQuits(t *testing.T) {
	m := newLoadingTUIModel(tuiLoadConfig{})

	next, cmd := m.Update(tuiDataLoadErrMsg{err: errors.New("no roster imported yet")})

	require.NotNil(t, cmd)
	assert.EqualError(t, next.(priorityTUIModel).fatalErr, "no roster imported yet")
}

func TestLoadTUIDataCmd_WrapsErrors(t *testing.T) {
	cmd := loadTUIDataCmd(tuiLoadConfig{
		load: func() (tuiDataLoadedMsg, error) { return tuiDataLoadedMsg{}, errors.New("boom") },
	})

	msg, ok := cmd().(tuiDataLoadErrMsg)
	require.True(t, ok)
	assert.EqualError(t, msg.err, "boom")
}

package priority

import (
	"math"
	"regexp"
	"sort"
	"strconv"
)

// Categorized groups entries for per-category views. Each entry copy keeps
// only the sources belonging to its group.
type Categorized struct {
	Raids  []Entry `json:"raids"`
	Wild   []Entry `json:"wild"`
	Rocket []Entry `json:"rocket"`
	Eggs   []Entry `json:"eggs"`
}

var reEggKM = regexp.MustCompile(`(\d+)\s*km`)

func isRaidSource(t SourceType) bool {
	return t == SourceRaid || t == SourceShadowRaid || t == SourceUpcomingRaid
}

func isWildSource(t SourceType) bool {
	return t == SourceEvent || t == SourceResearch || t == SourceUpcoming
}

// Categorize splits ranked entries into raids, wild, rocket and eggs. Order
// within a group follows the input, except eggs, which sort by the shortest
// distance found in their labels with unknown distances last.
func Categorize(entries []Entry) Categorized {
	var out Categorized
	for _, e := range entries {
		if g, ok := withSources(e, isRaidSource); ok {
			out.Raids = append(out.Raids, g)
		}
		if g, ok := withSources(e, isWildSource); ok {
			out.Wild = append(out.Wild, g)
		}
		if g, ok := withSources(e, func(t SourceType) bool { return t == SourceRocket }); ok {
			out.Rocket = append(out.Rocket, g)
		}
		if g, ok := withSources(e, func(t SourceType) bool { return t == SourceEgg }); ok {
			out.Eggs = append(out.Eggs, g)
		}
	}
	sort.SliceStable(out.Eggs, func(i, j int) bool {
		return minEggKM(out.Eggs[i]) < minEggKM(out.Eggs[j])
	})
	return out
}

func withSources(e Entry, keep func(SourceType) bool) (Entry, bool) {
	var sources []Source
	for _, s := range e.Sources {
		if keep(s.Type) {
			sources = append(sources, s)
		}
	}
	if len(sources) == 0 {
		return Entry{}, false
	}
	e.Sources = sources
	return e, true
}

func minEggKM(e Entry) int {
	best := math.MaxInt
	for _, s := range e.Sources {
		m := reEggKM.FindStringSubmatch(s.Label)
		if m == nil {
			continue
		}
		if km, err := strconv.Atoi(m[1]); err == nil && km < best {
			best = km
		}
	}
	return best
}

package filter_test

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/luckydex/internal/filter"
	"github.com/tayloree/luckydex/internal/priority"
)

var sourceTypes = []priority.SourceType{
	priority.SourceRaid,
	priority.SourceShadowRaid,
	priority.SourceEvent,
	priority.SourceResearch,
	priority.SourceEgg,
	priority.SourceRocket,
}

var referenceGroups = map[string][]priority.SourceType{
	"":       nil,
	"raid":   {priority.SourceRaid, priority.SourceShadowRaid, priority.SourceUpcomingRaid},
	"egg":    {priority.SourceEgg},
	"rocket": {priority.SourceRocket},
	"wild":   {priority.SourceEvent, priority.SourceResearch, priority.SourceUpcoming},
}

func referenceApply(entries []priority.Entry, opts filter.Options) []priority.Entry {
	result := referenceWhere(entries, func(e priority.Entry) bool { return e.Score >= opts.MinScore })

	if opts.NeededBy != "" {
		result = referenceWhere(result, func(e priority.Entry) bool { return string(e.NeededBy) == opts.NeededBy })
	}

	if opts.Query != "" {
		q := strings.ToLower(opts.Query)
		result = referenceWhere(result, func(e priority.Entry) bool { return strings.Contains(e.NormalizedName, q) })
	}

	if group := referenceGroups[opts.Source]; group != nil {
		result = referenceWhere(result, func(e priority.Entry) bool {
			for _, s := range e.Sources {
				for _, t := range group {
					if s.Type == t {
						return true
					}
				}
			}
			return false
		})
	}

	if opts.Sort == "dex" {
		sort.SliceStable(result, func(i, j int) bool { return result[i].DexNumber < result[j].DexNumber })
	}

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result
}

func referenceWhere(entries []priority.Entry, fn func(priority.Entry) bool) []priority.Entry {
	result := []priority.Entry{}
	for _, e := range entries {
		if fn(e) {
			result = append(result, e)
		}
	}
	return result
}

func randomEntry(rng *rand.Rand, idx int) priority.Entry {
	neededOptions := []priority.NeededBy{"", priority.NeededByBoth, priority.NeededByYou, priority.NeededByPartner}
	count := 1 + rng.Intn(3)
	sources := make([]priority.Source, 0, count)
	for range count {
		sources = append(sources, priority.Source{Type: sourceTypes[rng.Intn(len(sourceTypes))]})
	}
	name := fmt.Sprintf("creature%d", idx)
	return priority.Entry{
		DexNumber:      rng.Intn(1025) + 1,
		Name:           name,
		NormalizedName: name,
		Score:          1 + rng.Intn(12),
		NeededBy:       neededOptions[rng.Intn(len(neededOptions))],
		Sources:        sources,
	}
}

func randomOptions(rng *rand.Rand) filter.Options {
	sources := []string{"", "raid", "egg", "rocket", "wild"}
	needed := []string{"", "both", "you", "partner"}
	queries := []string{"", "creature1", "creature2", "ure"}
	sorts := []string{"", "dex"}
	limits := []int{0, 1, 3, 5, 10}
	return filter.Options{
		Source:   sources[rng.Intn(len(sources))],
		NeededBy: needed[rng.Intn(len(needed))],
		Query:    queries[rng.Intn(len(queries))],
		MinScore: rng.Intn(6),
		Sort:     sorts[rng.Intn(len(sorts))],
		Limit:    limits[rng.Intn(len(limits))],
	}
}

func TestApply_ReferenceEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for caseNum := 0; caseNum < 500; caseNum++ {
		count := rng.Intn(60)
		entries := make([]priority.Entry, 0, count)
		for i := range count {
			entries = append(entries, randomEntry(rng, i))
		}

		opts := randomOptions(rng)
		got := filter.Apply(entries, opts)
		want := referenceApply(entries, opts)

		assert.Equal(t, len(want), len(got), "length mismatch for opts=%+v case=%d", opts, caseNum)
		assert.Equal(t, names(want), names(got), "mismatch for opts=%+v case=%d", opts, caseNum)
	}
}

func BenchmarkApply_1kEntries(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	entries := make([]priority.Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, randomEntry(rng, i))
	}
	opts := filter.Options{Source: "raid", NeededBy: "both", Query: "creature", Limit: 50}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = filter.Apply(entries, opts)
	}
}

func TestApply_AllocationBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	entries := make([]priority.Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, randomEntry(rng, i))
	}
	opts := filter.Options{Source: "raid", NeededBy: "both", Query: "creature", Limit: 50}

	allocs := testing.AllocsPerRun(100, func() {
		_ = filter.Apply(entries, opts)
	})

	assert.LessOrEqual(t, allocs, 20.0)
}

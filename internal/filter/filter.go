// Package filter narrows and orders prioritized entries for display.
package filter

import (
	"strconv"
	"strings"

	"github.com/tayloree/luckydex/internal/match"
	"github.com/tayloree/luckydex/internal/priority"
)

// Options holds all filter criteria.
type Options struct {
	Source   string
	NeededBy string
	Query    string
	MinScore int
	Sort     string
	Limit    int
}

// Apply filters entries according to opts in one pass, then sorts and
// limits. An unknown Source matches nothing.
func Apply(entries []priority.Entry, opts Options) []priority.Entry {
	var sources sourceMatcher
	if strings.TrimSpace(opts.Source) != "" {
		sources = newSourceMatcher(opts.Source)
		if sources.empty() {
			return nil
		}
	}
	needed := strings.ToLower(strings.TrimSpace(opts.NeededBy))
	query := strings.TrimSpace(opts.Query)
	queryKey := match.Normalize(query)
	queryDex, queryIsDex := 0, false
	if n, err := strconv.Atoi(query); err == nil {
		queryDex, queryIsDex = n, true
	}

	capHint := len(entries)
	if opts.Limit > 0 && opts.Limit < capHint && normalizeSortMode(opts.Sort) == "" {
		capHint = opts.Limit
	}
	result := make([]priority.Entry, 0, capHint)
	for _, e := range entries {
		if e.Score < opts.MinScore {
			continue
		}
		if needed != "" && string(e.NeededBy) != needed {
			continue
		}
		if query != "" {
			if queryIsDex {
				if e.DexNumber != queryDex {
					continue
				}
			} else if queryKey == "" || !strings.Contains(e.NormalizedName, queryKey) {
				continue
			}
		}
		if !sources.empty() && !sources.matchesAny(e.Sources) {
			continue
		}
		result = append(result, e)
	}

	sortEntries(result, opts.Sort)

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result
}

// SourceCounts returns how many entries carry each source type.
func SourceCounts(entries []priority.Entry) map[priority.SourceType]int {
	counts := make(map[priority.SourceType]int)
	for _, e := range entries {
		seen := map[priority.SourceType]bool{}
		for _, s := range e.Sources {
			if !seen[s.Type] {
				seen[s.Type] = true
				counts[s.Type]++
			}
		}
	}
	return counts
}

package filter

import (
	"sort"
	"strings"

	"github.com/tayloree/luckydex/internal/priority"
)

func normalizeSortMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "score", "priority", "relevance":
		return ""
	case "dex", "number", "national":
		return "dex"
	case "name", "alpha", "alphabetical":
		return "name"
	default:
		return ""
	}
}

// sortEntries reorders in place. The default keeps the scorer's order.
func sortEntries(entries []priority.Entry, mode string) {
	switch normalizeSortMode(mode) {
	case "dex":
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].DexNumber < entries[j].DexNumber })
	case "name":
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		})
	}
}

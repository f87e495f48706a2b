package match

import (
	"sort"

	"github.com/tayloree/luckydex/internal/roster"
)

// Index resolves source-side names to pooled creatures: an exact lookup on
// the normalized name first, then a linear fuzzy scan.
type Index struct {
	exact map[string]roster.Creature
	pool  []roster.Creature
}

// NewIndex builds an index over pool. The input slice is not modified.
func NewIndex(pool []roster.Creature) *Index {
	sorted := make([]roster.Creature, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DexNumber < sorted[j].DexNumber })

	exact := make(map[string]roster.Creature, len(sorted))
	for _, c := range sorted {
		key := Normalize(c.Name)
		if key == "" {
			continue
		}
		if _, taken := exact[key]; !taken {
			exact[key] = c
		}
	}
	return &Index{exact: exact, pool: sorted}
}

// Lookup returns the first creature matching sourceName.
func (ix *Index) Lookup(sourceName string) (roster.Creature, bool) {
	if c, ok := ix.exact[Normalize(sourceName)]; ok {
		return c, true
	}
	for _, c := range ix.pool {
		if Matches(c.Name, sourceName) {
			return c, true
		}
	}
	return roster.Creature{}, false
}

// Len is the pool size.
func (ix *Index) Len() int { return len(ix.pool) }

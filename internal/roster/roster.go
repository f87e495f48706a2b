package roster

import (
	"fmt"
	"sort"
	"time"
)

// MaxDex is the highest dex number in the reference catalog.
const MaxDex = 1025

// PlaceholderName names a dex number with no known species name.
func PlaceholderName(dex int) string {
	return fmt.Sprintf("Creature %d", dex)
}

// Creature is one species entry in a roster.
type Creature struct {
	DexNumber int    `json:"dexNumber"`
	Name      string `json:"name"`
	IsLucky   bool   `json:"isLucky"`
}

// Roster is a player's full lucky list, unique by dex number.
type Roster struct {
	Creatures   []Creature `json:"pokemon"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// New builds a roster from creatures. The first creature seen for a dex
// number wins; the result is sorted by dex number.
func New(creatures []Creature, updated time.Time) Roster {
	seen := make(map[int]struct{}, len(creatures))
	out := make([]Creature, 0, len(creatures))
	for _, c := range creatures {
		if _, dup := seen[c.DexNumber]; dup {
			continue
		}
		seen[c.DexNumber] = struct{}{}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DexNumber < out[j].DexNumber })
	return Roster{Creatures: out, LastUpdated: updated}
}

// Replace returns a new roster holding only creatures (bulk import).
func (r Roster) Replace(creatures []Creature, now time.Time) Roster {
	return New(creatures, now)
}

// Toggle flips the lucky flag for dex. The second return is false when the
// roster has no creature with that dex number.
func (r Roster) Toggle(dex int, now time.Time) (Roster, bool) {
	out := make([]Creature, len(r.Creatures))
	copy(out, r.Creatures)
	for i := range out {
		if out[i].DexNumber == dex {
			out[i].IsLucky = !out[i].IsLucky
			return Roster{Creatures: out, LastUpdated: now}, true
		}
	}
	return r, false
}

// Lookup finds a creature by dex number.
func (r Roster) Lookup(dex int) (Creature, bool) {
	i := sort.Search(len(r.Creatures), func(i int) bool { return r.Creatures[i].DexNumber >= dex })
	if i < len(r.Creatures) && r.Creatures[i].DexNumber == dex {
		return r.Creatures[i], true
	}
	for _, c := range r.Creatures {
		if c.DexNumber == dex {
			return c, true
		}
	}
	return Creature{}, false
}

// Missing returns the creatures that are not lucky yet, in roster order.
func (r Roster) Missing() []Creature {
	out := make([]Creature, 0, len(r.Creatures))
	for _, c := range r.Creatures {
		if !c.IsLucky {
			out = append(out, c)
		}
	}
	return out
}

// LuckyCount is the number of lucky creatures.
func (r Roster) LuckyCount() int {
	n := 0
	for _, c := range r.Creatures {
		if c.IsLucky {
			n++
		}
	}
	return n
}

// LuckySet collects lucky dex numbers within 1..maxDex.
func (r Roster) LuckySet(maxDex int) DexSet {
	return LuckyDexNumbers(r.Creatures, maxDex)
}

// LuckyDexNumbers collects lucky dex numbers within 1..maxDex.
func LuckyDexNumbers(creatures []Creature, maxDex int) DexSet {
	set := DexSet{}
	for _, c := range creatures {
		if !c.IsLucky || c.DexNumber < 1 || c.DexNumber > maxDex {
			continue
		}
		set.Add(c.DexNumber)
	}
	return set
}

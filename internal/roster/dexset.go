package roster

import "sort"

// DexSet is a set of dex numbers.
type DexSet map[int]struct{}

// NewDexSet builds a set from dex numbers.
func NewDexSet(dex ...int) DexSet {
	s := make(DexSet, len(dex))
	for _, d := range dex {
		s[d] = struct{}{}
	}
	return s
}

func (s DexSet) Add(dex int) { s[dex] = struct{}{} }

func (s DexSet) Has(dex int) bool {
	_, ok := s[dex]
	return ok
}

func (s DexSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s DexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

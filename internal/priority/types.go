// Package priority ranks missing lucky creatures by how available they are
// across raid, event, research, egg and rocket feeds.
package priority

// SourceType identifies the feed category that contributed to an entry.
type SourceType string

const (
	SourceRaid         SourceType = "raid"
	SourceShadowRaid   SourceType = "shadow-raid"
	SourceUpcomingRaid SourceType = "upcoming-raid"
	SourceEvent        SourceType = "event"
	SourceUpcoming     SourceType = "upcoming"
	SourceResearch     SourceType = "research"
	SourceEgg          SourceType = "egg"
	SourceRocket       SourceType = "rocket"
)

// NeededBy says who still lacks the lucky variant. Empty when no partner
// roster was supplied.
type NeededBy string

const (
	NeededByBoth    NeededBy = "both"
	NeededByYou     NeededBy = "you"
	NeededByPartner NeededBy = "partner"
)

func (n NeededBy) rank() int {
	switch n {
	case NeededByBoth:
		return 0
	case NeededByPartner:
		return 2
	default:
		return 1
	}
}

// Source is one piece of provenance for an entry.
type Source struct {
	Type         SourceType `json:"type"`
	Label        string     `json:"label"`
	Detail       string     `json:"detail"`
	Availability string     `json:"availability,omitempty"`
	Link         string     `json:"link,omitempty"`
}

// Entry is a prioritized missing creature.
type Entry struct {
	DexNumber      int      `json:"dexNumber"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalizedName"`
	Score          int      `json:"score"`
	Sources        []Source `json:"sources"`
	NeededBy       NeededBy `json:"neededBy,omitempty"`
	// Placeholder is set when the name was synthesized for a dex number the
	// user's roster does not carry.
	Placeholder bool `json:"placeholder,omitempty"`
}

// HasSource reports whether any source has type t.
func (e Entry) HasSource(t SourceType) bool {
	for _, s := range e.Sources {
		if s.Type == t {
			return true
		}
	}
	return false
}

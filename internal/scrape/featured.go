package scrape

import (
	"regexp"
	"strings"

	"github.com/tayloree/luckydex/internal/match"
)

// genericFeaturedKeys are words that show up where a featured name was
// expected but name no creature.
var genericFeaturedKeys = map[string]struct{}{
	"raid":    {},
	"day":     {},
	"shadow":  {},
	"max":     {},
	"battle":  {},
	"elite":   {},
	"event":   {},
	"pokemon": {},
	"go":      {},
}

var (
	reFeaturedDay   = regexp.MustCompile(`(?i)^(.+?)\s+(?:Raid Day|Max Battle Day|Elite Raid Day)$`)
	reFeaturedIn    = regexp.MustCompile(`(?i)^(.+?)\s+in\s+.+\s+Raid Battles$`)
	reFeaturedSlug  = regexp.MustCompile(`(?i)^(.+?)-(?:raid-day|max-battle-day|elite-raid-day)(?:-\d{4})?$`)
	reCompositeName = regexp.MustCompile(`(?i)\s*(?:,|&| and )\s*`)
)

// IsGenericFeaturedName reports names too short or too vague to be a
// creature.
func IsGenericFeaturedName(name string) bool {
	key := match.Normalize(name)
	if len(key) < 4 {
		return true
	}
	_, generic := genericFeaturedKeys[key]
	return generic
}

func splitComposite(value string) []string {
	var out []string
	for _, part := range reCompositeName.Split(value, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func titleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FeaturedFromName infers featured creatures from titles like
// "Kyogre & Groudon Raid Day" or "Darkrai in 5-star Raid Battles".
func FeaturedFromName(name string) []string {
	if m := reFeaturedDay.FindStringSubmatch(name); m != nil {
		return splitComposite(m[1])
	}
	if m := reFeaturedIn.FindStringSubmatch(name); m != nil {
		return splitComposite(m[1])
	}
	return nil
}

// FeaturedFromEventID infers the featured creature from slugs like
// "kyurem-raid-day-2026".
func FeaturedFromEventID(eventID string) []string {
	m := reFeaturedSlug.FindStringSubmatch(eventID)
	if m == nil {
		return nil
	}
	return []string{titleCase(strings.ReplaceAll(m[1], "-", " "))}
}

// Featured combines name and ID inference, dropping generic words.
func Featured(name, eventID string) []string {
	names := append(FeaturedFromName(name), FeaturedFromEventID(eventID)...)
	return WithoutGeneric(DedupeNames(names))
}

// WithoutGeneric filters names rejected by IsGenericFeaturedName.
func WithoutGeneric(names []string) []string {
	var out []string
	for _, n := range names {
		if !IsGenericFeaturedName(n) {
			out = append(out, n)
		}
	}
	return out
}

// Package match links creature names across feeds that spell forms differently.
package match

import (
	"regexp"
	"strings"
)

// formPrefixes are leading tokens that name a regional form, battle forme,
// stance or color variant rather than the species. Order matters: only the
// first match is stripped.
var formPrefixes = []string{
	"alolan",
	"galarian",
	"hisuian",
	"paldean",
	"mega",
	"shadow",
	"normal",
	"attack",
	"defense",
	"speed",
	"origin",
	"altered",
	"therian",
	"incarnate",
	"black",
	"white",
	"primal",
}

var reParenthetical = regexp.MustCompile(`^(.+?)\s*\(`)

// Normalize lowercases name and drops everything outside [a-z0-9].
func Normalize(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// BaseName strips one known form prefix ("Alolan Vulpix" -> "Vulpix") or a
// trailing parenthetical ("Giratina (Origin)" -> "Giratina").
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for _, prefix := range formPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			return strings.TrimSpace(name[len(prefix)+1:])
		}
	}
	if m := reParenthetical.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return name
}

// Matches reports whether candidate and source denote the same creature:
// equal normalized names, or either one containing the other.
func Matches(candidate, source string) bool {
	c := Normalize(candidate)
	s := Normalize(source)
	if c == "" || s == "" {
		return false
	}
	return c == s || strings.Contains(s, c) || strings.Contains(c, s)
}

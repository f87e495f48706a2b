// Package trade classifies the trading constraints of a needed raid boss.
package trade

import (
	"strings"

	"github.com/tayloree/luckydex/internal/match"
)

// Note is a trade annotation for a needed creature.
type Note int

const (
	NoteNone Note = iota
	NoteUntradeable
	NotePurifySpecialTrade
	NoteSpecialTrade
)

func (n Note) String() string {
	switch n {
	case NoteUntradeable:
		return "untradeable"
	case NotePurifySpecialTrade:
		return "purify, then special trade"
	case NoteSpecialTrade:
		return "special trade"
	default:
		return ""
	}
}

// Label is the short display text.
func (n Note) Label() string {
	switch n {
	case NoteUntradeable:
		return "Can't Trade (Mythical)"
	case NotePurifySpecialTrade:
		return "Purify + Special Trade"
	case NoteSpecialTrade:
		return "Special Trade"
	default:
		return ""
	}
}

// untradeableSpecies are normalized base names that can never be traded.
var untradeableSpecies = map[string]struct{}{
	"mew":       {},
	"celebi":    {},
	"jirachi":   {},
	"deoxys":    {},
	"phione":    {},
	"manaphy":   {},
	"darkrai":   {},
	"shaymin":   {},
	"arceus":    {},
	"victini":   {},
	"keldeo":    {},
	"meloetta":  {},
	"genesect":  {},
	"diancie":   {},
	"hoopa":     {},
	"volcanion": {},
	"magearna":  {},
	"marshadow": {},
	"zeraora":   {},
	"zarude":    {},
	"pecharunt": {},
}

// specialTradeTierMarkers flag a legendary or elite raid tier.
var specialTradeTierMarkers = []string{"5-star", "5 star", "elite"}

// Evaluate returns the trade note for a raid boss. Creatures the player does
// not need get no note.
func Evaluate(name, tier string, isShadow, isNeeded bool) Note {
	if !isNeeded {
		return NoteNone
	}
	if IsUntradeable(name) {
		return NoteUntradeable
	}
	// A shadow must be purified first, and the purified result still
	// consumes a special trade.
	if isShadow {
		return NotePurifySpecialTrade
	}
	if isSpecialTradeTier(tier) {
		return NoteSpecialTrade
	}
	return NoteNone
}

// IsUntradeable reports whether name's species can never be traded.
func IsUntradeable(name string) bool {
	_, ok := untradeableSpecies[match.Normalize(match.BaseName(name))]
	return ok
}

func isSpecialTradeTier(tier string) bool {
	t := strings.ToLower(tier)
	if strings.HasPrefix(t, "5") {
		return true
	}
	for _, marker := range specialTradeTierMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

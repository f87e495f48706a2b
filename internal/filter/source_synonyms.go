package filter

import (
	"sort"
	"strings"

	"github.com/tayloree/luckydex/internal/priority"
)

var sourceGroups = map[string][]priority.SourceType{
	"raid":     {priority.SourceRaid, priority.SourceShadowRaid, priority.SourceUpcomingRaid},
	"shadow":   {priority.SourceShadowRaid},
	"wild":     {priority.SourceEvent, priority.SourceResearch, priority.SourceUpcoming},
	"event":    {priority.SourceEvent},
	"research": {priority.SourceResearch},
	"upcoming": {priority.SourceUpcoming, priority.SourceUpcomingRaid},
	"egg":      {priority.SourceEgg},
	"rocket":   {priority.SourceRocket},
}

var sourceSynonyms = map[string][]string{
	"raid":     {"boss", "raid boss", "battle"},
	"shadow":   {"shadow raid", "purify"},
	"wild":     {"spawn", "wild spawn", "catch"},
	"event":    {"event spawn"},
	"research": {"task", "quest", "field research"},
	"upcoming": {"soon", "next"},
	"egg":      {"hatch", "egg pool"},
	"rocket":   {"grunt", "leader", "team rocket", "go rocket", "invasion"},
}

// KnownSources lists the accepted source group names.
func KnownSources() []string {
	out := make([]string, 0, len(sourceGroups))
	for k := range sourceGroups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveSource maps a user-supplied source name or synonym to its group.
func ResolveSource(wanted string) (string, bool) {
	norm := normalizeSource(wanted)
	if norm == "" {
		return "", false
	}
	if _, ok := sourceGroups[norm]; ok {
		return norm, true
	}
	for _, t := range allSourceTypes() {
		if normalizeSource(string(t)) == norm {
			return string(t), true
		}
	}
	for group, synonyms := range sourceSynonyms {
		for _, s := range synonyms {
			if normalizeSource(s) == norm {
				return group, true
			}
		}
	}
	return "", false
}

func allSourceTypes() []priority.SourceType {
	return []priority.SourceType{
		priority.SourceRaid,
		priority.SourceShadowRaid,
		priority.SourceUpcomingRaid,
		priority.SourceEvent,
		priority.SourceUpcoming,
		priority.SourceResearch,
		priority.SourceEgg,
		priority.SourceRocket,
	}
}

type sourceMatcher struct {
	types map[priority.SourceType]struct{}
}

func newSourceMatcher(wanted string) sourceMatcher {
	resolved, ok := ResolveSource(wanted)
	if !ok {
		return sourceMatcher{}
	}
	types := make(map[priority.SourceType]struct{})
	if group, isGroup := sourceGroups[resolved]; isGroup {
		for _, t := range group {
			types[t] = struct{}{}
		}
	} else {
		types[priority.SourceType(resolved)] = struct{}{}
	}
	return sourceMatcher{types: types}
}

func (m sourceMatcher) empty() bool { return len(m.types) == 0 }

func (m sourceMatcher) matchesAny(sources []priority.Source) bool {
	for _, s := range sources {
		if _, ok := m.types[s.Type]; ok {
			return true
		}
	}
	return false
}

func normalizeSource(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "ies"):
		s = strings.TrimSuffix(s, "ies") + "y"
	case len(s) > 3 && strings.HasSuffix(s, "es") && strings.HasSuffix(strings.TrimSuffix(s, "es"), "ss"):
		s = strings.TrimSuffix(s, "es")
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		s = strings.TrimSuffix(s, "s")
	}
	return s
}

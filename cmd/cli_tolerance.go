package cmd

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Tokens shorter than this are never fuzzy matched; "5" is two edits from "db".
const minFuzzyLen = 4

type flagSpec struct {
	name          string
	requiresValue bool
}

var knownFlags = map[string]flagSpec{
	"json":       {name: "json", requiresValue: false},
	"db":         {name: "db", requiresValue: true},
	"config":     {name: "config", requiresValue: true},
	"loglevel":   {name: "loglevel", requiresValue: true},
	"feeds-url":  {name: "feeds-url", requiresValue: true},
	"upcoming":   {name: "upcoming", requiresValue: false},
	"no-partner": {name: "no-partner", requiresValue: false},
	"source":     {name: "source", requiresValue: true},
	"needed-by":  {name: "needed-by", requiresValue: true},
	"query":      {name: "query", requiresValue: true},
	"min-score":  {name: "min-score", requiresValue: true},
	"sort":       {name: "sort", requiresValue: true},
	"limit":      {name: "limit", requiresValue: true},
	"group":      {name: "group", requiresValue: false},
	"link":       {name: "link", requiresValue: true},
	"name":       {name: "name", requiresValue: true},
	"missing":    {name: "missing", requiresValue: false},
	"dir":        {name: "dir", requiresValue: true},
	"raids":      {name: "raids", requiresValue: false},
	"keep":       {name: "keep", requiresValue: true},
	"count":      {name: "count", requiresValue: true},
	"help":       {name: "help", requiresValue: false},
}

var knownCommands = []string{
	"raids",
	"events",
	"roster",
	"partner",
	"share",
	"sources",
	"compare",
	"catalog",
	"snapshot",
	"tui",
	"completion",
	"help",
}

var flagAliases = map[string]string{
	"upcomming":   "upcoming",
	"soon":        "upcoming",
	"solo":        "no-partner",
	"nopartner":   "no-partner",
	"type":        "source",
	"from":        "source",
	"neededby":    "needed-by",
	"search":      "query",
	"max":         "limit",
	"min":         "min-score",
	"minscore":    "min-score",
	"categorized": "group",
	"grouped":     "group",
	"log-level":   "loglevel",
	"feeds":       "feeds-url",
	"database":    "db",
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	notes := make([]string, 0, 2)
	commandChosen := false
	activeCommand := ""
	nestedCommandAllowed := false
	nestedCommandChosen := false
	allowBareFlagRewrite := true
	expectingValue := false
	afterDoubleDash := false

	for i, tok := range args {
		if afterDoubleDash {
			out = append(out, tok)
			continue
		}

		if expectingValue {
			out = append(out, tok)
			expectingValue = false
			continue
		}

		if tok == "--" {
			out = append(out, tok)
			afterDoubleDash = true
			continue
		}

		if len(tok) == 2 && tok[0] == '-' && tok[1] != '-' {
			out = append(out, tok)
			if knownShorthands[tok[1]] && i < len(args)-1 {
				expectingValue = true
			}
			continue
		}

		canBeCommand := !commandChosen || (nestedCommandAllowed && !nestedCommandChosen)
		normalized, note, isFlag, needsValue, isCommand := normalizeToken(tok, canBeCommand, allowBareFlagRewrite)
		if note != "" {
			notes = append(notes, note)
		}
		out = append(out, normalized)

		if isCommand {
			if !commandChosen {
				commandChosen = true
				activeCommand = normalized
				allowBareFlagRewrite = bareFlagRewriteAllowed(activeCommand)
				nestedCommandAllowed = allowsNestedCommandArg(activeCommand)
				continue
			}
			if nestedCommandAllowed && !nestedCommandChosen {
				nestedCommandChosen = true
			}
		}
		if isFlag && needsValue && !strings.Contains(normalized, "=") && i < len(args)-1 {
			expectingValue = true
		}
	}

	return out, notes
}

func normalizeToken(tok string, canBeCommand bool, allowBareFlagRewrite bool) (normalized, note string, isFlag, needsValue, isCommand bool) {
	if tok == "--" {
		return tok, "", false, false, false
	}

	if strings.HasPrefix(tok, "--") {
		flagName, rest := splitFlag(strings.TrimPrefix(tok, "--"))
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			if newTok != tok {
				return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
			}
			return newTok, "", true, knownFlags[canonical].requiresValue, false
		}
		return tok, "", true, false, false
	}

	if strings.HasPrefix(tok, "-") && len(tok) > 2 {
		flagName, rest := splitFlag(strings.TrimPrefix(tok, "-"))
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
		return tok, "", true, false, false
	}

	if allowBareFlagRewrite && strings.Contains(tok, "=") && !strings.HasPrefix(tok, "-") {
		flagName, rest := splitFlag(tok)
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
	}

	if canBeCommand && !strings.HasPrefix(tok, "-") {
		if corrected, ok := resolveCommand(tok); ok {
			if corrected != tok {
				return corrected, fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, corrected, corrected), false, false, true
			}
			return tok, "", false, false, true
		}
	}

	if allowBareFlagRewrite && !strings.HasPrefix(tok, "-") {
		canonical, ok := resolveFlagName(tok)
		if ok {
			newTok := "--" + canonical
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
	}

	return tok, "", false, false, false
}

func rewriteNote(tok, newTok string) string {
	return fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", tok, newTok, newTok)
}

func bareFlagRewriteAllowed(command string) bool {
	// Flag-only commands, where rewriting a bare `upcoming` to `--upcoming`
	// cannot swallow a positional argument.
	switch command {
	case "raids", "events", "sources", "compare", "snapshot", "tui":
		return true
	default:
		return false
	}
}

func allowsNestedCommandArg(command string) bool {
	// These commands accept another command token as a positional argument.
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := knownFlags[name]; ok {
		return name, true
	}
	if len(name) < minFuzzyLen {
		return "", false
	}

	if suggestion, ok := closestMatch(name, mapKeys(knownFlags), 2); ok {
		return suggestion, true
	}
	return "", false
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, cmd := range knownCommands {
		if name == cmd {
			return cmd, true
		}
	}
	if len(name) < minFuzzyLen {
		return "", false
	}
	if suggestion, ok := closestMatch(name, knownCommands, 2); ok {
		return suggestion, true
	}
	return "", false
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) == 2 {
		return parts[0], "=" + parts[1]
	}
	return value, ""
}

func extractUnknownValue(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx == -1 {
		return ""
	}

	remaining := strings.TrimSpace(msg[idx+len(marker):])
	remaining = strings.TrimPrefix(remaining, ":")
	remaining = strings.TrimSpace(remaining)

	if strings.HasPrefix(remaining, "\"") {
		remaining = strings.TrimPrefix(remaining, "\"")
		end := strings.Index(remaining, "\"")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if strings.HasPrefix(remaining, "`") {
		remaining = strings.TrimPrefix(remaining, "`")
		end := strings.Index(remaining, "`")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if fields := strings.Fields(remaining); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

func mapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// closestMatch returns the candidate nearest to target within maxDistance
// edits. Ties go to the lexically smaller candidate so map-ordered inputs
// give stable answers.
func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(target, candidate)
		if d < bestDist || (d == bestDist && candidate < best) {
			bestDist = d
			best = candidate
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}

package scrape

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/tayloree/luckydex/internal/match"
)

var (
	reBossesKey = regexp.MustCompile(`(?i)"bosses"\s*:\s*\[`)
	reNameField = regexp.MustCompile(`(?i)"name"\s*:\s*"([^"]+)"`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// BossNamesFromJSON finds "bosses":[...] arrays embedded in page markup,
// escaped or not, and returns the boss names in order of appearance.
func BossNamesFromJSON(html []byte) []string {
	var names []string
	for _, src := range []string{string(html), strings.ReplaceAll(string(html), `\"`, `"`)} {
		for _, loc := range reBossesKey.FindAllStringIndex(src, -1) {
			names = append(names, namesInArray(src[loc[1]-1:])...)
		}
	}
	return DedupeNames(names)
}

// namesInArray reads names from the array starting at s. Arrays that do
// not close or do not parse fall back to name fields up to the first ']'.
func namesInArray(s string) []string {
	var names []string
	if block, ok := balancedArray(s); ok && gjson.Valid(block) {
		for _, n := range gjson.Get(block, "#.name").Array() {
			names = append(names, n.String())
		}
		return names
	}
	if end := strings.IndexByte(s, ']'); end >= 0 {
		s = s[:end]
	}
	for _, m := range reNameField.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

// balancedArray returns the prefix of s up to the bracket closing s[0].
func balancedArray(s string) (string, bool) {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// NamesInText returns the known names that appear as whole words in the
// page's visible text.
func NamesInText(html []byte, known []string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}
	doc.Find("script, style").Remove()
	text := strings.ToLower(reSpaces.ReplaceAllString(doc.Text(), " "))

	var found []string
	for _, name := range known {
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(name)) + `\b`)
		if err != nil {
			continue
		}
		if pattern.MatchString(text) {
			found = append(found, name)
		}
	}
	return DedupeNames(found)
}

// DedupeNames trims names and keeps the first spelling per normalized key.
func DedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		key := match.Normalize(trimmed)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

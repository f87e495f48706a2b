package roster

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reDexCell    = regexp.MustCompile(`^\d+$`)
	reNameReject = regexp.MustCompile(`[:%=0-9]`)
	// Whole-label match so names such as Noibat survive the "no." filter.
	reHeaderJunk = regexp.MustCompile(`(?i)^(no\.?|name|lucky|owned|obtainable|generation|total|confirm|regional|untradable|unreleased|trainer|spreadsheet)(\b|$)`)
	reLineBreak  = regexp.MustCompile(`\r?\n`)
)

// ParseCSV reads a spreadsheet export where each row holds repeating
// [dex, name, (blank), TRUE|FALSE] groups. Comma is used when present,
// otherwise tab. Groups without a lucky status are skipped.
func ParseCSV(text string) []Creature {
	delimiter := "\t"
	if strings.Contains(text, ",") {
		delimiter = ","
	}

	seen := make(map[int]struct{})
	var out []Creature

	for _, line := range reLineBreak.Split(strings.TrimSpace(text), -1) {
		parts := strings.Split(line, delimiter)
		for i := 0; i < len(parts)-1; i++ {
			cell := strings.TrimSpace(parts[i])
			if !reDexCell.MatchString(cell) {
				continue
			}
			dex, err := strconv.Atoi(cell)
			if err != nil || dex < 1 || dex > MaxDex {
				continue
			}

			name, nameIdx := "", -1
			for j := i + 1; j < min(i+3, len(parts)); j++ {
				if val := strings.TrimSpace(parts[j]); val != "" && IsCreatureName(val) {
					name, nameIdx = val, j
					break
				}
			}
			if nameIdx == -1 {
				continue
			}

			lucky, found := false, false
			for j := nameIdx + 1; j < min(nameIdx+4, len(parts)); j++ {
				val := strings.ToUpper(strings.TrimSpace(parts[j]))
				if val == "TRUE" || val == "FALSE" {
					lucky, found = val == "TRUE", true
					i = j
					break
				}
				if val != "" && reDexCell.MatchString(val) {
					i = j - 1
					break
				}
			}
			if !found {
				continue
			}

			if _, dup := seen[dex]; dup {
				continue
			}
			seen[dex] = struct{}{}
			out = append(out, Creature{DexNumber: dex, Name: name, IsLucky: lucky})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DexNumber < out[j].DexNumber })
	return out
}

// IsCreatureName rejects spreadsheet header junk such as "96.03%" or "Owned :".
func IsCreatureName(s string) bool {
	if len(s) < 2 || len(s) > 30 {
		return false
	}
	if reNameReject.MatchString(s) || reHeaderJunk.MatchString(s) {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

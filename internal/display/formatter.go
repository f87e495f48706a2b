package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/trade"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	shadowTag    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	tradeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	luckyTag     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

var neededByStyles = map[priority.NeededBy]lipgloss.Style{
	priority.NeededByBoth:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	priority.NeededByYou:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	priority.NeededByPartner: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
}

// RaidRow is one current raid boss annotated against the user's roster.
type RaidRow struct {
	Name      string     `json:"name"`
	Tier      string     `json:"tier"`
	Shadow    bool       `json:"shadow"`
	DexNumber int        `json:"dexNumber,omitempty"`
	Needed    bool       `json:"needed"`
	Lucky     bool       `json:"lucky"`
	Trade     trade.Note `json:"-"`
	TradeNote string     `json:"tradeNote,omitempty"`
}

// EventJSON is the JSON output shape for an event.
type EventJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Availability string   `json:"availability"`
	Link         string   `json:"link,omitempty"`
	Upcoming     bool     `json:"upcoming"`
	RaidThemed   bool     `json:"raidThemed"`
	Enrichment   string   `json:"enrichment"`
	Creatures    []string `json:"creatures"`
}

// RosterJSON is the JSON output shape for a roster summary.
type RosterJSON struct {
	Total       int          `json:"total"`
	Lucky       int          `json:"lucky"`
	Missing     int          `json:"missing"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
	Partner     *PartnerJSON `json:"partner,omitempty"`
}

// PartnerJSON summarizes the partner roster.
type PartnerJSON struct {
	Name      string `json:"name"`
	Lucky     int    `json:"lucky"`
	UpdatedAt string `json:"updatedAt"`
}

// ShareJSON is the JSON output shape for a share link.
type ShareJSON struct {
	URL      string `json:"url"`
	Payload  string `json:"payload"`
	Checksum string `json:"checksum"`
	Count    int    `json:"count"`
}

// PrintPriorities renders ranked entries to the writer.
func PrintPriorities(w io.Writer, entries []priority.Entry) {
	fmt.Fprintf(w, "\n%s - %s\n\n",
		headerStyle.Render("Lucky Priorities"),
		cyanStyle.Render(fmt.Sprintf("%d creatures", len(entries))),
	)
	for _, e := range entries {
		printEntry(w, e)
		fmt.Fprintln(w)
	}
}

// PrintPrioritiesJSON renders entries as JSON.
func PrintPrioritiesJSON(w io.Writer, entries []priority.Entry) error {
	return json.NewEncoder(w).Encode(normalizeEntries(entries))
}

// PrintCategorized renders entries grouped by activity.
func PrintCategorized(w io.Writer, c priority.Categorized) {
	groups := []struct {
		title   string
		entries []priority.Entry
	}{
		{"Raids", c.Raids},
		{"Wild & Research", c.Wild},
		{"Team GO Rocket", c.Rocket},
		{"Eggs", c.Eggs},
	}
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render(g.title), dimStyle.Render(fmt.Sprintf("(%d)", len(g.entries))))
		if len(g.entries) == 0 {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render("nothing missing here right now"))
			continue
		}
		for _, e := range g.entries {
			printEntry(w, e)
		}
	}
	fmt.Fprintln(w)
}

// PrintCategorizedJSON renders grouped entries as JSON.
func PrintCategorizedJSON(w io.Writer, c priority.Categorized) error {
	c.Raids = normalizeEntries(c.Raids)
	c.Wild = normalizeEntries(c.Wild)
	c.Rocket = normalizeEntries(c.Rocket)
	c.Eggs = normalizeEntries(c.Eggs)
	return json.NewEncoder(w).Encode(c)
}

// PrintRaids renders the current raid bosses with need and trade info.
func PrintRaids(w io.Writer, rows []RaidRow) {
	fmt.Fprintf(w, "\n%s - %s\n\n",
		headerStyle.Render("Current Raids"),
		cyanStyle.Render(fmt.Sprintf("%d bosses", len(rows))),
	)
	tier := ""
	for _, r := range rows {
		if r.Tier != tier {
			tier = r.Tier
			fmt.Fprintf(w, "  %s\n", titleStyle.Render(tier))
		}
		var tags []string
		if r.Shadow {
			tags = append(tags, shadowTag.Render("SHADOW"))
		}
		switch {
		case r.Lucky:
			tags = append(tags, luckyTag.Render("LUCKY"))
		case r.Needed:
			tags = append(tags, scoreStyle.Render("NEED"))
		}
		if label := r.Trade.Label(); label != "" {
			tags = append(tags, tradeStyle.Render(label))
		}
		line := "    " + r.Name
		if len(tags) > 0 {
			line += "  " + strings.Join(tags, " ")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// PrintRaidsJSON renders raid rows as JSON.
func PrintRaidsJSON(w io.Writer, rows []RaidRow) error {
	out := make([]RaidRow, 0, len(rows))
	for _, r := range rows {
		r.TradeNote = r.Trade.String()
		out = append(out, r)
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintEvents renders active and upcoming events.
func PrintEvents(w io.Writer, p feed.Partitioned) {
	sections := []struct {
		title  string
		events []feed.Event
	}{
		{"Active Events", p.Active},
		{"Upcoming Events", p.Upcoming},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render(s.title), dimStyle.Render(fmt.Sprintf("(%d)", len(s.events))))
		for _, e := range s.events {
			fmt.Fprintf(w, "  %s  %s\n", titleStyle.Render(e.Name), dimStyle.Render(e.Availability()))
			if names := e.Enrichment().SpawnNames(); len(names) > 0 {
				fmt.Fprintf(w, "    %s\n", wordWrap(strings.Join(names, ", "), 72, "    "))
			}
			if e.Link != "" {
				fmt.Fprintf(w, "    %s\n", dimStyle.Render(e.Link))
			}
		}
	}
	fmt.Fprintln(w)
}

// PrintEventsJSON renders events as JSON.
func PrintEventsJSON(w io.Writer, p feed.Partitioned) error {
	out := make([]EventJSON, 0, len(p.Active)+len(p.Upcoming))
	for _, e := range p.Active {
		out = append(out, toEventJSON(e, false))
	}
	for _, e := range p.Upcoming {
		out = append(out, toEventJSON(e, true))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintRosterSummary renders roster totals and the partner, if any.
func PrintRosterSummary(w io.Writer, r roster.Roster, partner *roster.Partner) {
	s := rosterSummary(r, partner)
	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render("Lucky Roster"))
	fmt.Fprintf(w, "  %s %d of %d lucky, %d missing\n",
		luckyTag.Render("*"), s.Lucky, s.Total, s.Missing)
	if s.LastUpdated != "" {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Updated "+s.LastUpdated))
	}
	if s.Partner != nil {
		fmt.Fprintf(w, "  Partner %s: %d lucky %s\n",
			cyanStyle.Render(s.Partner.Name), s.Partner.Lucky, dimStyle.Render("(updated "+s.Partner.UpdatedAt+")"))
	}
	fmt.Fprintln(w)
}

// PrintRosterSummaryJSON renders roster totals as JSON.
func PrintRosterSummaryJSON(w io.Writer, r roster.Roster, partner *roster.Partner) error {
	return json.NewEncoder(w).Encode(rosterSummary(r, partner))
}

// PrintCreatures lists roster rows, marking lucky ones.
func PrintCreatures(w io.Writer, creatures []roster.Creature) {
	for _, c := range creatures {
		mark := dimStyle.Render("-")
		if c.IsLucky {
			mark = luckyTag.Render("*")
		}
		fmt.Fprintf(w, "  %s %s %s\n", mark, cyanStyle.Render(fmt.Sprintf("#%04d", c.DexNumber)), c.Name)
	}
}

// PrintCreaturesJSON renders roster rows as JSON.
func PrintCreaturesJSON(w io.Writer, creatures []roster.Creature) error {
	if creatures == nil {
		creatures = []roster.Creature{}
	}
	return json.NewEncoder(w).Encode(creatures)
}

// PrintShare renders a share link.
func PrintShare(w io.Writer, s ShareJSON) {
	fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render("Share link"), dimStyle.Render(fmt.Sprintf("(%d lucky)", s.Count)))
	fmt.Fprintf(w, "  %s\n\n", s.URL)
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("checksum "+s.Checksum))
}

// PrintShareJSON renders a share link as JSON.
func PrintShareJSON(w io.Writer, s ShareJSON) error {
	return json.NewEncoder(w).Encode(s)
}

// SourceCount is one row of the per-source tally.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SourceCountsFrom flattens a tally into rows ordered by count, then name.
func SourceCountsFrom(counts map[priority.SourceType]int) []SourceCount {
	out := make([]SourceCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, SourceCount{Source: string(t), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// PrintSourceCounts renders how many missing creatures each source offers.
func PrintSourceCounts(w io.Writer, rows []SourceCount) {
	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render("Sources"))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-14s %s\n", r.Source, scoreStyle.Render(fmt.Sprintf("%d", r.Count)))
	}
	fmt.Fprintln(w)
}

// PrintSourceCountsJSON renders the tally as JSON.
func PrintSourceCountsJSON(w io.Writer, rows []SourceCount) error {
	if rows == nil {
		rows = []SourceCount{}
	}
	return json.NewEncoder(w).Encode(rows)
}

// PrintPartner renders the stored partner roster.
func PrintPartner(w io.Writer, p roster.Partner) {
	fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render("Partner"), cyanStyle.Render(p.Name))
	fmt.Fprintf(w, "  %s %d lucky\n", luckyTag.Render("*"), len(p.Dex))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("Updated "+p.UpdatedAt.Format("Jan 2, 2006 3:04 PM")))
}

// PrintPartnerJSON renders the partner as JSON.
func PrintPartnerJSON(w io.Writer, p roster.Partner) error {
	if p.Dex == nil {
		p.Dex = []int{}
	}
	return json.NewEncoder(w).Encode(p)
}

// VerifyJSON is the JSON output shape for a verified share link.
type VerifyJSON struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Dex    []int  `json:"dex"`
}

// PrintVerify renders the outcome of checking a share link.
func PrintVerify(w io.Writer, v VerifyJSON) {
	fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render("Share link"), scoreStyle.Render(v.Status))
	fmt.Fprintf(w, "  %d lucky creatures\n\n", v.Count)
}

// PrintVerifyJSON renders a verified share link as JSON.
func PrintVerifyJSON(w io.Writer, v VerifyJSON) error {
	if v.Dex == nil {
		v.Dex = []int{}
	}
	return json.NewEncoder(w).Encode(v)
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func printEntry(w io.Writer, e priority.Entry) {
	name := titleStyle.Render(e.Name)
	if e.Placeholder {
		name = dimStyle.Render(e.Name)
	}
	tag := ""
	if style, ok := neededByStyles[e.NeededBy]; ok {
		tag = " " + style.Render("["+string(e.NeededBy)+"]")
	}
	fmt.Fprintf(w, "  %s %s  %s%s\n",
		cyanStyle.Render(fmt.Sprintf("#%04d", e.DexNumber)),
		name,
		scoreStyle.Render(fmt.Sprintf("score %d", e.Score)),
		tag,
	)
	for _, s := range e.Sources {
		fmt.Fprintf(w, "      %s\n", dimStyle.Render(sourceLine(s)))
	}
}

func sourceLine(s priority.Source) string {
	parts := []string{string(s.Type), s.Label}
	if s.Detail != "" && s.Detail != s.Label {
		parts = append(parts, s.Detail)
	}
	if s.Availability != "" {
		parts = append(parts, s.Availability)
	}
	return strings.Join(parts, " | ")
}

func normalizeEntries(entries []priority.Entry) []priority.Entry {
	out := make([]priority.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Sources == nil {
			e.Sources = []priority.Source{}
		}
		out = append(out, e)
	}
	return out
}

func toEventJSON(e feed.Event, upcoming bool) EventJSON {
	en := e.Enrichment()
	names := en.SpawnNames()
	if names == nil {
		names = []string{}
	}
	return EventJSON{
		ID:           e.EventID,
		Name:         e.Name,
		Type:         e.EventType,
		Start:        e.Start,
		End:          e.End,
		Availability: e.Availability(),
		Link:         e.Link,
		Upcoming:     upcoming,
		RaidThemed:   e.IsRaidEvent(),
		Enrichment:   en.Kind.String(),
		Creatures:    names,
	}
}

func rosterSummary(r roster.Roster, partner *roster.Partner) RosterJSON {
	lucky := r.LuckyCount()
	s := RosterJSON{
		Total:   len(r.Creatures),
		Lucky:   lucky,
		Missing: len(r.Creatures) - lucky,
	}
	if !r.LastUpdated.IsZero() {
		s.LastUpdated = r.LastUpdated.Format("Jan 2, 2006 3:04 PM")
	}
	if partner != nil {
		s.Partner = &PartnerJSON{
			Name:      partner.Name,
			Lucky:     len(partner.Dex),
			UpdatedAt: partner.UpdatedAt.Format("Jan 2, 2006"),
		}
	}
	return s
}

// SortRaidRows orders rows by tier, then needed first, then name.
func SortRaidRows(rows []RaidRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Tier != rows[j].Tier {
			return rows[i].Tier < rows[j].Tier
		}
		if rows[i].Needed != rows[j].Needed {
			return rows[i].Needed
		}
		return rows[i].Name < rows[j].Name
	})
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}

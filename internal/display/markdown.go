package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/trade"
)

// EntryMarkdown describes one entry as markdown for the detail pane.
func EntryMarkdown(e priority.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# #%04d %s\n\n", e.DexNumber, e.Name)
	fmt.Fprintf(&b, "**Score:** %d", e.Score)
	if e.NeededBy != "" {
		fmt.Fprintf(&b, "  \n**Needed by:** %s", e.NeededBy)
	}
	if trade.IsMythicalDex(e.DexNumber) {
		b.WriteString("  \n**Mythical:** can't be traded")
	} else if trade.IsLegendaryDex(e.DexNumber) {
		b.WriteString("  \n**Legendary:** special trade")
	}
	b.WriteString("\n\n## Where to find it\n\n")
	for _, s := range e.Sources {
		fmt.Fprintf(&b, "- **%s** (%s)", s.Label, s.Type)
		if s.Detail != "" && s.Detail != s.Label {
			fmt.Fprintf(&b, ": %s", s.Detail)
		}
		if s.Availability != "" {
			fmt.Fprintf(&b, ", %s", s.Availability)
		}
		if s.Link != "" {
			fmt.Fprintf(&b, " [details](%s)", s.Link)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMarkdown renders md for a terminal of the given width. On renderer
// failure the raw markdown is returned.
func RenderMarkdown(md string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/catalog"
	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/match"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/share"
	"github.com/tayloree/luckydex/internal/storage"
)

const maxNameSuggestions = 3

var (
	flagLink        string
	flagShowMissing bool
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Import, inspect and edit your lucky roster",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Replace the roster from a spreadsheet export or a share link",
	Long: "Reads a CSV or TSV export with repeating [dex, name, ..., TRUE|FALSE] groups.\n" +
		"With --link, builds the roster from a share link and the species catalog instead.\n" +
		"Reads stdin when the file is omitted or is -.",
	Example: `  luckydex roster import lucky.csv
  pbpaste | luckydex roster import
  luckydex roster import --link 'https://luckydex.app/?lucky=...&sum=...&count=42'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRosterImport,
}

var rosterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show roster totals, or the missing creatures with --missing",
	Args:  cobra.NoArgs,
	RunE:  runRosterShow,
}

var rosterToggleCmd = &cobra.Command{
	Use:     "toggle <dex|name>",
	Short:   "Flip one creature's lucky flag",
	Example: "  luckydex roster toggle 25\n  luckydex roster toggle pikachu",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRosterToggle,
}

var rosterFindCmd = &cobra.Command{
	Use:     "find <name>",
	Short:   "Find roster entries by name",
	Example: "  luckydex roster find charm",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRosterFind,
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterImportCmd, rosterShowCmd, rosterToggleCmd, rosterFindCmd)

	rosterImportCmd.Flags().StringVar(&flagLink, "link", "", "Share link to import instead of a file")
	rosterShowCmd.Flags().BoolVar(&flagShowMissing, "missing", false, "List creatures not yet lucky")
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, invalidArgsError(fmt.Sprintf("file not found: %s", args[0]))
		}
		return nil, err
	}
	return body, nil
}

// verifyLink parses and checks a share link, mapping failures to exit codes.
func verifyLink(raw string) (roster.DexSet, error) {
	link, err := share.ParseLink(raw)
	if err != nil {
		return nil, shareLinkError(err)
	}
	set, _, err := share.Verify(link, roster.MaxDex)
	if err != nil {
		return nil, shareLinkError(err)
	}
	return set, nil
}

func runRosterImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	var r roster.Roster
	if flagLink != "" {
		set, err := verifyLink(flagLink)
		if err != nil {
			return err
		}
		r = catalog.BuildRoster(set, roster.MaxDex, catalogNames(cmd, a), a.now)
	} else {
		body, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		creatures := roster.ParseCSV(string(body))
		if len(creatures) == 0 {
			return invalidArgsError(
				"no roster rows found in input",
				"Export the sheet as CSV with dex, name and a TRUE/FALSE lucky column.",
			)
		}
		r = roster.New(creatures, a.now)
	}

	if err := a.db.SaveRoster(ctx, r); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	p, err := a.partner(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		return display.PrintRosterSummaryJSON(cmd.OutOrStdout(), r, p)
	}
	display.PrintRosterSummary(cmd.OutOrStdout(), r, p)
	return nil
}

// catalogNames returns species names, or nil so callers fall back to
// placeholders.
func catalogNames(cmd *cobra.Command, a *app) map[int]string {
	names, err := a.catalog().Names(cmd.Context())
	if err != nil {
		display.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("species catalog unavailable, using placeholder names: %v", err))
		return nil
	}
	return names
}

func runRosterShow(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.roster(cmd.Context())
	if err != nil {
		return err
	}
	if flagShowMissing {
		missing := r.Missing()
		if flagJSON {
			return display.PrintCreaturesJSON(cmd.OutOrStdout(), missing)
		}
		display.PrintCreatures(cmd.OutOrStdout(), missing)
		return nil
	}

	p, err := a.partner(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return display.PrintRosterSummaryJSON(cmd.OutOrStdout(), r, p)
	}
	display.PrintRosterSummary(cmd.OutOrStdout(), r, p)
	return nil
}

// resolveCreature finds a roster creature by dex number or name.
func resolveCreature(r roster.Roster, query string) (roster.Creature, error) {
	if dex, err := strconv.Atoi(query); err == nil {
		if c, ok := r.Lookup(dex); ok {
			return c, nil
		}
		return roster.Creature{}, notFoundError(fmt.Sprintf("no creature #%d in your roster", dex))
	}
	if c, ok := match.NewIndex(r.Creatures).Lookup(query); ok {
		return c, nil
	}
	return roster.Creature{}, noMatchError(r, query)
}

func noMatchError(r roster.Roster, query string) error {
	suggestions := []string{}
	for _, name := range closestNames(r.Creatures, query, maxNameSuggestions) {
		suggestions = append(suggestions, fmt.Sprintf("Did you mean `%s`?", name))
	}
	return notFoundError(fmt.Sprintf("no creatures match %q", query), suggestions...)
}

// closestNames ranks roster names by edit distance to query, keeping at
// most limit names within a third of the query length.
func closestNames(creatures []roster.Creature, query string, limit int) []string {
	key := match.Normalize(query)
	if key == "" {
		return nil
	}
	maxDist := len(key)/3 + 1

	type candidate struct {
		name string
		dist int
		dex  int
	}
	var found []candidate
	for _, c := range creatures {
		d := levenshtein.ComputeDistance(key, match.Normalize(c.Name))
		if d <= maxDist {
			found = append(found, candidate{name: c.Name, dist: d, dex: c.DexNumber})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].dex < found[j].dex
	})

	out := make([]string, 0, limit)
	for _, c := range found {
		if len(out) == limit {
			break
		}
		out = append(out, c.name)
	}
	return out
}

func runRosterToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.roster(cmd.Context())
	if err != nil {
		return err
	}
	c, err := resolveCreature(r, strings.Join(args, " "))
	if err != nil {
		return err
	}
	updated, err := a.db.ToggleLucky(cmd.Context(), c.DexNumber, a.now)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundError(fmt.Sprintf("no creature #%d in your roster", c.DexNumber))
	}
	if err != nil {
		return fmt.Errorf("updating roster: %w", err)
	}

	if flagJSON {
		return display.PrintCreaturesJSON(cmd.OutOrStdout(), []roster.Creature{updated})
	}
	state := "no longer lucky"
	if updated.IsLucky {
		state = "now lucky"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%04d %s is %s\n", updated.DexNumber, updated.Name, state)
	return nil
}

func runRosterFind(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.roster(cmd.Context())
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	found := findCreatures(r, query)
	if len(found) == 0 {
		return noMatchError(r, query)
	}

	if flagJSON {
		return display.PrintCreaturesJSON(cmd.OutOrStdout(), found)
	}
	display.PrintCreatures(cmd.OutOrStdout(), found)
	return nil
}

// findCreatures returns every roster creature the query names, by dex number
// or fuzzy name match, in dex order.
func findCreatures(r roster.Roster, query string) []roster.Creature {
	if dex, err := strconv.Atoi(strings.TrimSpace(query)); err == nil {
		if c, ok := r.Lookup(dex); ok {
			return []roster.Creature{c}
		}
		return nil
	}
	var out []roster.Creature
	for _, c := range r.Creatures {
		if match.Matches(c.Name, query) {
			out = append(out, c)
		}
	}
	return out
}

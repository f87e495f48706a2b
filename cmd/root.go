package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/filter"
	"github.com/tayloree/luckydex/internal/priority"
)

var (
	flagJSON      bool
	flagUpcoming  bool
	flagNoPartner bool
	flagSource    string
	flagNeededBy  string
	flagQuery     string
	flagMinScore  int
	flagSort      string
	flagLimit     int
	flagGroup     bool
)

var rootCmd = &cobra.Command{
	Use:   "luckydex",
	Short: "Rank the lucky creatures you still need by where to get them now",
	Long: "CLI tool that scores every creature missing from your lucky roster against the\n" +
		"current raids, events, field research, eggs and rocket lineups.\n" +
		"With a partner roster saved, each entry says who needs it: both, you, or partner.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -upcoming, source=raid, --limt 10).",
	Example: `  luckydex
  luckydex --upcoming --limit 20
  luckydex --source raid --needed-by both
  luckydex --group --json
  luckydex raids
  luckydex share`,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return initConfig()
	},
	RunE: runPriorities,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.luckydex.yaml)")
	pf.String("db", "", "sqlite database path (default ~/.luckydex/luckydex.db)")
	pf.String("feeds-url", "", "base URL of the game data feeds")
	pf.StringP("loglevel", "l", "", "log level: debug, info, warn, error, fatal")

	registerPriorityFlags(rootCmd.Flags())
	bindConfigFlags()
}

// bindConfigFlags ties persistent flags to their config keys.
func bindConfigFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(keyDB, pf.Lookup("db"))
	_ = viper.BindPFlag(keyFeedsBaseURL, pf.Lookup("feeds-url"))
	_ = viper.BindPFlag(keyLogLevel, pf.Lookup("loglevel"))
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

// resetCLIState restores every flag to its default so repeated runCLI calls
// in one process do not leak state.
func resetCLIState() {
	cfgFile = ""
	resetFlags(rootCmd)
	viper.Reset()
	bindConfigFlags()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func registerPriorityFlags(f *pflag.FlagSet) {
	f.BoolVarP(&flagUpcoming, "upcoming", "u", false, "Also score events starting within upcoming_days")
	f.BoolVar(&flagNoPartner, "no-partner", false, "Ignore the saved partner roster")
	f.StringVarP(&flagSource, "source", "s", "", "Filter by source (raid, shadow, wild, event, research, upcoming, egg, rocket)")
	f.StringVar(&flagNeededBy, "needed-by", "", "Filter by who needs it: both, you, or partner")
	f.StringVarP(&flagQuery, "query", "q", "", "Search by name or dex number")
	f.IntVar(&flagMinScore, "min-score", 0, "Only show entries scoring at least this much")
	f.StringVar(&flagSort, "sort", "", "Sort by score, dex, or name")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Limit number of results (0 = all)")
	f.BoolVar(&flagGroup, "group", false, "Group results into raids, wild, rocket and eggs")
}

func validateSortMode() error {
	switch strings.ToLower(strings.TrimSpace(flagSort)) {
	case "", "score", "priority", "relevance", "dex", "number", "national", "name", "alpha", "alphabetical":
		return nil
	default:
		return invalidArgsError(
			"invalid value for --sort (use score, dex, or name)",
			"luckydex --sort score",
			"luckydex --sort dex",
		)
	}
}

func validatePriorityFlags() error {
	if err := validateSortMode(); err != nil {
		return err
	}
	if flagLimit < 0 {
		return invalidArgsError("--limit must not be negative", "luckydex --limit 10")
	}
	switch strings.ToLower(strings.TrimSpace(flagNeededBy)) {
	case "", string(priority.NeededByBoth), string(priority.NeededByYou), string(priority.NeededByPartner):
	default:
		return invalidArgsError(
			"invalid value for --needed-by (use both, you, or partner)",
			"luckydex --needed-by both",
		)
	}
	if strings.TrimSpace(flagSource) != "" {
		if _, ok := filter.ResolveSource(flagSource); !ok {
			return invalidArgsError(
				fmt.Sprintf("unknown source %q (use %s)", flagSource, strings.Join(filter.KnownSources(), ", ")),
				"luckydex --source raid",
				"luckydex sources",
			)
		}
	}
	return nil
}

func priorityFilterOptions() filter.Options {
	return filter.Options{
		Source:   flagSource,
		NeededBy: flagNeededBy,
		Query:    flagQuery,
		MinScore: flagMinScore,
		Sort:     flagSort,
		Limit:    flagLimit,
	}
}

func runPriorities(cmd *cobra.Command, _ []string) error {
	if err := validatePriorityFlags(); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.priorities(cmd.Context(), !flagNoPartner, flagUpcoming)
	if err != nil {
		return err
	}
	if len(run.Entries) == 0 {
		return notFoundError(
			"no creatures match the current raids, events, research, eggs or rockets",
			"Try `luckydex --upcoming` to include events starting soon.",
		)
	}

	entries := filter.Apply(run.Entries, priorityFilterOptions())
	if len(entries) == 0 {
		return notFoundError(
			"no creatures match your filters",
			"Relax filters like --source/--needed-by/--query/--min-score.",
		)
	}

	if flagGroup {
		grouped := priority.Categorize(entries)
		if flagJSON {
			return display.PrintCategorizedJSON(cmd.OutOrStdout(), grouped)
		}
		display.PrintCategorized(cmd.OutOrStdout(), grouped)
		return nil
	}
	if flagJSON {
		return display.PrintPrioritiesJSON(cmd.OutOrStdout(), entries)
	}
	display.PrintPriorities(cmd.OutOrStdout(), entries)
	return nil
}

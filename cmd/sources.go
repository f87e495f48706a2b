package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/filter"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Count missing creatures available from each source right now",
	Example: `  luckydex sources
  luckydex sources --upcoming --json`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().BoolVarP(&flagUpcoming, "upcoming", "u", false, "Also count events starting within upcoming_days")
	sourcesCmd.Flags().BoolVar(&flagNoPartner, "no-partner", false, "Ignore the saved partner roster")
}

func runSources(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.priorities(cmd.Context(), !flagNoPartner, flagUpcoming)
	if err != nil {
		return err
	}
	rows := display.SourceCountsFrom(filter.SourceCounts(run.Entries))
	if len(rows) == 0 {
		return notFoundError(
			"no creatures match the current raids, events, research, eggs or rockets",
			"Try `luckydex sources --upcoming`.",
		)
	}

	if flagJSON {
		return display.PrintSourceCountsJSON(cmd.OutOrStdout(), rows)
	}
	display.PrintSourceCounts(cmd.OutOrStdout(), rows)
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/feed"
	"github.com/tayloree/luckydex/internal/match"
	"github.com/tayloree/luckydex/internal/priority"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/trade"
)

var flagNeededOnly bool

var raidsCmd = &cobra.Command{
	Use:   "raids",
	Short: "List current raid bosses with lucky status and trade notes",
	Example: `  luckydex raids
  luckydex raids --missing
  luckydex raids --json`,
	Args: cobra.NoArgs,
	RunE: runRaids,
}

func init() {
	rootCmd.AddCommand(raidsCmd)
	raidsCmd.Flags().BoolVar(&flagNeededOnly, "missing", false, "Only show bosses missing from your lucky roster")
}

func runRaids(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.roster(cmd.Context())
	if err != nil {
		return err
	}
	raids, err := a.client.FetchRaids(cmd.Context())
	if err != nil {
		return upstreamError("fetching feeds", err)
	}

	rows := raidRows(r, raids)
	if flagNeededOnly {
		kept := rows[:0]
		for _, row := range rows {
			if row.Needed {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if len(rows) == 0 {
		return notFoundError("no creatures match the current raid bosses", "Run `luckydex raids` without --missing.")
	}

	if flagJSON {
		return display.PrintRaidsJSON(cmd.OutOrStdout(), rows)
	}
	display.PrintRaids(cmd.OutOrStdout(), rows)
	return nil
}

// raidRows matches each boss against the whole roster. Bosses with no roster
// match are listed as not needed.
func raidRows(r roster.Roster, raids []feed.RaidBoss) []display.RaidRow {
	idx := match.NewIndex(r.Creatures)
	rows := make([]display.RaidRow, 0, len(raids))
	for _, boss := range raids {
		row := display.RaidRow{
			Name:   boss.Name,
			Tier:   boss.Tier,
			Shadow: priority.IsShadowRaid(boss),
		}
		if c, ok := idx.Lookup(match.BaseName(boss.Name)); ok {
			row.DexNumber = c.DexNumber
			row.Lucky = c.IsLucky
			row.Needed = !c.IsLucky
		}
		row.Trade = trade.Evaluate(boss.Name, boss.Tier, row.Shadow, row.Needed)
		rows = append(rows, row)
	}
	display.SortRaidRows(rows)
	return rows
}

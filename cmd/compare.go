package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/priority"
)

var flagCompareCount int

type compareBucket struct {
	NeededBy priority.NeededBy `json:"neededBy"`
	Count    int               `json:"count"`
	Score    int               `json:"score"`
	Top      []string          `json:"top"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare what you and your partner still need from current sources",
	Example: `  luckydex compare
  luckydex compare --upcoming --count 10
  luckydex compare --json`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVarP(&flagUpcoming, "upcoming", "u", false, "Also score events starting within upcoming_days")
	compareCmd.Flags().IntVar(&flagCompareCount, "count", 5, "Names to show per bucket (1-25)")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	if flagCompareCount < 1 || flagCompareCount > 25 {
		return invalidArgsError(
			"--count must be between 1 and 25",
			"luckydex compare --count 5",
		)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.priorities(cmd.Context(), true, flagUpcoming)
	if err != nil {
		return err
	}
	if run.Partner == nil {
		return notFoundError(
			"no partner saved to compare against",
			"luckydex partner import '<share link>'",
		)
	}

	buckets := compareBuckets(run.Entries, flagCompareCount)

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(buckets)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nYou vs %s (%d creature(s) available now)\n\n", run.Partner.Name, len(run.Entries))
	for _, b := range buckets {
		fmt.Fprintf(out, "%-8s %3d creature(s) | total score %d\n", b.NeededBy, b.Count, b.Score)
		for _, name := range b.Top {
			fmt.Fprintf(out, "   %s\n", name)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// compareBuckets tallies entries by who needs them, in both, you, partner
// order. Entries arrive ranked, so the first names are the best picks.
func compareBuckets(entries []priority.Entry, top int) []compareBucket {
	buckets := []compareBucket{
		{NeededBy: priority.NeededByBoth, Top: []string{}},
		{NeededBy: priority.NeededByYou, Top: []string{}},
		{NeededBy: priority.NeededByPartner, Top: []string{}},
	}
	for _, e := range entries {
		for i := range buckets {
			if buckets[i].NeededBy != e.NeededBy {
				continue
			}
			buckets[i].Count++
			buckets[i].Score += e.Score
			if len(buckets[i].Top) < top {
				buckets[i].Top = append(buckets[i].Top, fmt.Sprintf("#%04d %s (%d)", e.DexNumber, e.Name, e.Score))
			}
		}
	}
	return buckets
}

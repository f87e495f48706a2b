package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/feed"
)

var flagRaidEventsOnly bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List active and upcoming events",
	Long: "Lists events running now and those starting within upcoming_days, with the\n" +
		"creatures each one features. History snapshots fill in details the live feed lacks.",
	Example: `  luckydex events
  luckydex events --raids
  luckydex events --json`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&flagRaidEventsOnly, "raids", false, "Only show raid-themed events")
}

func runEvents(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.events(cmd.Context())
	if err != nil {
		return err
	}
	if flagRaidEventsOnly {
		events = raidEvents(events)
	}

	p := feed.Partition(events, a.now, a.horizonEnd())
	if len(p.Active) == 0 && len(p.Upcoming) == 0 {
		return notFoundError("no active or upcoming events", "Raise upcoming_days in ~/.luckydex.yaml.")
	}

	if flagJSON {
		return display.PrintEventsJSON(cmd.OutOrStdout(), p)
	}
	display.PrintEvents(cmd.OutOrStdout(), p)
	return nil
}

func raidEvents(events []feed.Event) []feed.Event {
	out := make([]feed.Event, 0, len(events))
	for _, e := range events {
		if e.IsRaidEvent() {
			out = append(out, e)
		}
	}
	return out
}

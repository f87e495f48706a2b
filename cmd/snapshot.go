package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/history"
)

var (
	flagSnapshotDir  string
	flagSnapshotKeep int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save today's feeds, enriched from event pages, as a history snapshot",
	Long: "Fetches every feed, scrapes event pages for spawns, eggs, research and raid\n" +
		"bosses the feed leaves out, and writes <dir>/YYYY-MM-DD.json plus index.json.\n" +
		"Snapshots older than --keep days are pruned. Later runs use the newest snapshot\n" +
		"to fill in event details.",
	Example: `  luckydex snapshot
  luckydex snapshot --dir ./history --keep 14`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&flagSnapshotDir, "dir", "", "Snapshot directory (default history.dir)")
	snapshotCmd.Flags().IntVar(&flagSnapshotKeep, "keep", history.KeepDays, "Days of snapshots to keep")
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	if flagSnapshotKeep < 1 {
		return invalidArgsError("--keep must be at least 1", "luckydex snapshot --keep 7")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dir := a.cfg.HistoryDir
	if flagSnapshotDir != "" {
		if dir, err = expandPath(flagSnapshotDir); err != nil {
			return err
		}
	}
	if dir == "" {
		return invalidArgsError("no snapshot directory configured", "luckydex snapshot --dir ./history")
	}

	b := &history.Builder{
		Fetcher:  a.client,
		Dir:      dir,
		Source:   a.client.BaseURL(),
		KeepDays: flagSnapshotKeep,
		Now:      nowFunc,
	}
	path, err := b.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("building snapshot: %w", err)
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"path": path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the cached species name catalog",
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download species names again and replace the cache",
	Args:  cobra.NoArgs,
	RunE:  runCatalogRefresh,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogRefreshCmd)
}

func runCatalogRefresh(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.catalog().Refresh(cmd.Context())
	if err != nil {
		return upstreamError("fetching species", err)
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"species": len(names)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cached %d species names.\n", len(names))
	return nil
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a share link encoding your lucky roster",
	Long: "Encodes the lucky flags for dex 1..1025 as a compact link with a checksum and\n" +
		"count, so a partner can import it with `luckydex partner import`.",
	Example: `  luckydex share
  luckydex share --json
  luckydex share verify 'https://luckydex.app/?lucky=...&sum=...&count=42'`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

var shareVerifyCmd = &cobra.Command{
	Use:   "verify <link>",
	Short: "Check a share link without saving it",
	Long: "Exits 0 for a valid link, 2 when the payload cannot be decoded, and 5 when\n" +
		"the checksum or count does not match the payload.",
	Args: cobra.ExactArgs(1),
	RunE: runShareVerify,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareVerifyCmd)
}

func runShare(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.roster(cmd.Context())
	if err != nil {
		return err
	}
	link := share.NewLink(r.Creatures, roster.MaxDex)
	u, err := link.URL(a.cfg.ShareBaseURL)
	if err != nil {
		return invalidArgsError(err.Error(), "Set share.base_url in ~/.luckydex.yaml to a valid URL.")
	}

	out := display.ShareJSON{
		URL:      u,
		Payload:  link.Payload,
		Checksum: link.Checksum,
		Count:    link.Count,
	}
	if flagJSON {
		return display.PrintShareJSON(cmd.OutOrStdout(), out)
	}
	display.PrintShare(cmd.OutOrStdout(), out)
	return nil
}

func runShareVerify(cmd *cobra.Command, args []string) error {
	set, err := verifyLink(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	out := display.VerifyJSON{
		Status: share.StatusValid.String(),
		Count:  set.Len(),
		Dex:    set.Sorted(),
	}
	if flagJSON {
		return display.PrintVerifyJSON(cmd.OutOrStdout(), out)
	}
	display.PrintVerify(cmd.OutOrStdout(), out)
	return nil
}

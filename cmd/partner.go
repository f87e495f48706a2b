package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/roster"
	"github.com/tayloree/luckydex/internal/share"
	"github.com/tayloree/luckydex/internal/storage"
)

var flagPartnerName string

var partnerCmd = &cobra.Command{
	Use:   "partner",
	Short: "Manage the partner roster used for trade planning",
}

var partnerImportCmd = &cobra.Command{
	Use:   "import [link|file|-]",
	Short: "Save a partner from their share link or a partner JSON file",
	Long: "Accepts the partner's share link (or its query string), or a JSON document\n" +
		"{\"name\": ..., \"dex\": [...], \"updatedAt\": ...}. Reads stdin when omitted or -.",
	Example: `  luckydex partner import 'https://luckydex.app/?lucky=...&sum=...&count=42' --name Sam
  luckydex partner import partner.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPartnerImport,
}

var partnerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved partner",
	Args:  cobra.NoArgs,
	RunE:  runPartnerShow,
}

var partnerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved partner",
	Args:  cobra.NoArgs,
	RunE:  runPartnerClear,
}

func init() {
	rootCmd.AddCommand(partnerCmd)
	partnerCmd.AddCommand(partnerImportCmd, partnerShowCmd, partnerClearCmd)

	partnerImportCmd.Flags().StringVar(&flagPartnerName, "name", "", "Partner display name")
}

// looksLikeShareLink reports whether arg is a link rather than a file path.
func looksLikeShareLink(arg string) bool {
	return strings.Contains(arg, share.ParamPayload+"=")
}

func runPartnerImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var p roster.Partner
	if len(args) == 1 && looksLikeShareLink(args[0]) {
		set, err := verifyLink(args[0])
		if err != nil {
			return err
		}
		p = roster.NewPartner(set, flagPartnerName, a.now)
	} else {
		body, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		if text := strings.TrimSpace(string(body)); looksLikeShareLink(text) {
			set, err := verifyLink(text)
			if err != nil {
				return err
			}
			p = roster.NewPartner(set, flagPartnerName, a.now)
		} else {
			p, err = roster.ParsePartner(body, a.now)
			if err != nil {
				return invalidArgsError(
					fmt.Sprintf("reading partner: %v", err),
					"Pass the partner's share link, or JSON with a numeric dex array.",
				)
			}
			if flagPartnerName != "" {
				p.Name = flagPartnerName
			}
		}
	}

	if err := a.db.SavePartner(cmd.Context(), p); err != nil {
		return fmt.Errorf("saving partner: %w", err)
	}
	if flagJSON {
		return display.PrintPartnerJSON(cmd.OutOrStdout(), p)
	}
	display.PrintPartner(cmd.OutOrStdout(), p)
	return nil
}

func runPartnerShow(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.partner(cmd.Context())
	if err != nil {
		return err
	}
	if p == nil {
		return notFoundError("no partner saved", "luckydex partner import '<share link>'")
	}
	if flagJSON {
		return display.PrintPartnerJSON(cmd.OutOrStdout(), *p)
	}
	display.PrintPartner(cmd.OutOrStdout(), *p)
	return nil
}

func runPartnerClear(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.ClearPartner(cmd.Context()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("clearing partner: %w", err)
	}
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]bool{"cleared": true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Partner cleared.")
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tayloree/luckydex/internal/display"
	"github.com/tayloree/luckydex/internal/filter"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse prioritized creatures interactively in the terminal",
	Example: `  luckydex tui
  luckydex tui --upcoming --source raid`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerPriorityFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := validatePriorityFlags(); err != nil {
		return err
	}
	if !flagJSON && !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`luckydex tui` requires an interactive terminal",
			"Use `luckydex --json` in pipelines.",
		)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if flagJSON {
		run, err := a.priorities(cmd.Context(), !flagNoPartner, flagUpcoming)
		if err != nil {
			return err
		}
		return display.PrintPrioritiesJSON(cmd.OutOrStdout(), filter.Apply(run.Entries, priorityFilterOptions()))
	}

	model := newLoadingTUIModel(tuiLoadConfig{
		load: func() (tuiDataLoadedMsg, error) {
			run, err := a.priorities(cmd.Context(), !flagNoPartner, flagUpcoming)
			if err != nil {
				return tuiDataLoadedMsg{}, err
			}
			label := fmt.Sprintf("%d of %d lucky", run.Roster.LuckyCount(), len(run.Roster.Creatures))
			if run.Partner != nil {
				label += fmt.Sprintf("  |  partner %s: %d lucky", run.Partner.Name, len(run.Partner.Dex))
			}
			return tuiDataLoadedMsg{
				rosterLabel: label,
				entries:     run.Entries,
				hasPartner:  run.Partner != nil,
			}, nil
		},
		initialOpts: priorityFilterOptions(),
	})

	final, err := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(priorityTUIModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}

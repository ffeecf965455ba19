package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"talenttrack/internal/bootstrap"
	"talenttrack/internal/errs"
	"talenttrack/internal/usecase/console"
)

// consoleCmd opens the interactive candidate-update flow.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive candidate record updates",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		model := console.NewModel(cmd.Context(), svc.History, svc.Lookups, svc.UoW)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

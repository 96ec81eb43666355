package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"inphormed/internal/ui"
)

func runDashboard(cmd *cobra.Command, args []string) error {
	deps, err := openLayout(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	app := ui.NewAppModel(deps.store, deps.client,
		ui.WithAppLogger(logger),
		ui.WithRequestTimeout(cfg.Client.Timeout),
	)
	defer app.Close()

	p := tea.NewProgram(app.AsTeaModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	_, err = p.Run()
	return err
}

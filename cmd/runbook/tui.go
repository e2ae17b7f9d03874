package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/tui"
	"github.com/alexisbeaulieu97/runbook/internal/watch"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file>",
		Short: "Work through a runbook interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadRunbook(cmd, flags, "tui", args[0])
			if err != nil {
				return err
			}
			defer loaded.app.Close()

			ctx, cancel := context.WithCancel(loaded.ctx)
			defer cancel()

			model := tui.NewModel(ctx, loaded.app.workspace, loaded.path, loaded.rb)
			program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))

			w := watch.New(loaded.path, func(context.Context) {
				rb, err := loaded.app.workspace.Load(loaded.path)
				if err != nil {
					program.Send(tui.ErrMsg{Err: err})
					return
				}
				program.Send(tui.ReloadedMsg{Runbook: rb})
			}, watch.WithLogger(loaded.app.log))

			watchDone := make(chan error, 1)
			go func() { watchDone <- w.Run(ctx) }()

			final, runErr := program.Run()
			cancel()
			if err := <-watchDone; err != nil {
				loaded.app.log.Error(err, "watcher stopped")
			}
			if runErr != nil {
				return newCommandError("run interactive checklist", loaded.path, runErr, "Run from an interactive terminal, or use 'runbook pending' instead.")
			}
			if m, ok := final.(tui.Model); ok {
				p := m.Runbook().Progress()
				fmt.Fprintf(cmd.OutOrStdout(), "%d/%d steps done\n", p.Done, p.Total)
			}
			return nil
		},
	}
}

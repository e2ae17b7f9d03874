package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/watch"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Print progress every time the runbook file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadRunbook(cmd, flags, "watch", args[0])
			if err != nil {
				return err
			}
			defer loaded.app.Close()

			ctx, stop := signal.NotifyContext(loaded.ctx, os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			printProgress(out, loaded.rb)

			w := watch.New(loaded.path, func(context.Context) {
				rb, err := loaded.app.workspace.Load(loaded.path)
				if err != nil {
					fmt.Fprintf(out, "! %v\n", err)
					return
				}
				printProgress(out, rb)
			}, watch.WithDebounce(debounce), watch.WithLogger(loaded.app.log))

			if err := w.Run(ctx); err != nil {
				return newCommandError("watch", loaded.path, err, "Check that the runbook's directory still exists.")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before reacting to a change")

	return cmd
}

func printProgress(out io.Writer, rb *runbook.Runbook) {
	p := rb.Progress()
	next := "none"
	for step := range rb.ListPending() {
		next = fmt.Sprintf("%s %s", step.ID, step.Description)
		break
	}
	fmt.Fprintf(out, "[%s] %s: %d/%d done, next: %s\n", time.Now().Format("15:04:05"), valueOrFallback(rb.Title, "Runbook"), p.Done, p.Total, next)
}

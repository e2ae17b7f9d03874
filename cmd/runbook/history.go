package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type historyOptions struct {
	limit      int
	jsonOutput bool
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history <file>",
		Short: "Show the journal of changes made to a runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := newAppContext(cmd, flags, "history")
			if err != nil {
				return err
			}
			defer app.Close()

			path, err := app.resolveRunbook(args[0])
			if err != nil {
				return newCommandError("show history", fmt.Sprintf("resolving runbook %q", args[0]), err, "Pass an existing runbook file or a registered id.")
			}

			entries, err := app.workspace.History(ctx, path, opts.limit)
			if err != nil {
				return newCommandError("show history", fmt.Sprintf("reading journal for %s", path), err, "Enable the journal with 'journal = true' in the settings file.")
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries yet.")
				return nil
			}

			writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "WHEN\tKIND\tSUBJECT\tDETAIL")
			for _, e := range entries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
					e.Kind,
					e.Subject,
					valueOrFallback(e.Detail, "-"),
				)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show only the most recent N entries")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

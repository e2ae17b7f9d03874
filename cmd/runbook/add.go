package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file> <step-id> <description> <expected-result>",
		Short: "Append a pending step",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			rb, _, err := mutateRunbook(cmd, flags, "add", args[0], workspace.AddStep(id, args[2], args[3]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s as step %d\n", id, rb.Len())
			return nil
		},
	}

	return cmd
}

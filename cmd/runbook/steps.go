package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

func newDoneCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <file> <step-id>",
		Short: "Mark a step done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rb, _, err := mutateRunbook(cmd, flags, "done", args[0], workspace.MarkDone(args[1]))
			if err != nil {
				return err
			}
			p := rb.Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s done (%d/%d complete)\n", args[1], p.Done, p.Total)
			return nil
		},
	}
}

func newAnchorCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "anchor <file> <step-id> <reference>",
		Short: "Attach an anchor reference to a step",
		Long:  "Attach an anchor reference, such as a conversation link, to a step. Any previous anchor is replaced; the step's status does not change.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := mutateRunbook(cmd, flags, "anchor", args[0], workspace.AttachAnchor(args[1], args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Anchored %s to %s\n", args[1], args[2])
			return nil
		},
	}
}

func newEvidenceCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "evidence <file> <step-id> <text>",
		Short: "Record evidence observed for a step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := mutateRunbook(cmd, flags, "evidence", args[0], workspace.RecordEvidence(args[1], args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded evidence for %s\n", args[1])
			return nil
		},
	}
}

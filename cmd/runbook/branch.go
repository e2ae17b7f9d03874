package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

func newBranchCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Manage troubleshooting branches",
		Long:  "A troubleshooting branch isolates the diagnosis of one failing step. It closes once all of its exit criteria hold and is never deleted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newBranchOpenCmd(flags))
	cmd.AddCommand(newBranchMeetCmd(flags))
	cmd.AddCommand(newBranchCloseCmd(flags))
	cmd.AddCommand(newBranchListCmd(flags))

	return cmd
}

func newBranchOpenCmd(flags *rootFlags) *cobra.Command {
	var criteria []string

	cmd := &cobra.Command{
		Use:   "open <file> <step-id>",
		Short: "Open a troubleshooting branch on a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opened runbook.TroubleshootingBranch
			if _, _, err := mutateRunbook(cmd, flags, "open branch", args[0], workspace.OpenBranch(args[1], criteria, &opened)); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Opened %s on %s\n", opened.Label, opened.AnchorStepID)
			for i, c := range opened.ExitCriteria {
				fmt.Fprintf(out, "  %d. %s\n", i+1, c.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&criteria, "criterion", "c", nil, "Exit criterion (repeatable, at least one)")

	return cmd
}

func newBranchMeetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "meet <file> <label> <n>",
		Short: "Mark exit criterion n (1-based) of a branch as met",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 1 {
				return newCommandError("meet criterion", fmt.Sprintf("parsing criterion number %q", args[2]), fmt.Errorf("criterion number must be a positive integer"), "Run 'runbook branch list <file>' to see criterion numbers.")
			}
			rb, _, err := mutateRunbook(cmd, flags, "meet criterion", args[0], workspace.MeetCriterion(args[1], n-1))
			if err != nil {
				return err
			}
			branch, err := rb.Branch(args[1])
			if err != nil {
				return err
			}
			unmet := len(branch.Unmet())
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s criterion %d met (%d remaining)\n", args[1], n, unmet)
			if unmet == 0 && !branch.IsClosed() {
				fmt.Fprintf(cmd.OutOrStdout(), "  All exit criteria hold; close it with 'runbook branch close'.\n")
			}
			return nil
		},
	}
}

func newBranchCloseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "close <file> <label>",
		Short: "Close a branch whose exit criteria all hold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := mutateRunbook(cmd, flags, "close branch", args[0], workspace.CloseBranch(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed %s\n", args[1])
			return nil
		},
	}
}

func newBranchListCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List troubleshooting branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadRunbook(cmd, flags, "list branches", args[0])
			if err != nil {
				return err
			}
			defer loaded.app.Close()

			branches := loaded.rb.Branches()
			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(branches)
			}

			if len(branches) == 0 {
				fmt.Fprintln(out, "No troubleshooting branches.")
				return nil
			}

			useUnicode := supportsUnicode(out)
			for _, b := range branches {
				fmt.Fprintf(out, "%s %s on %s\n", branchIcon(b.Status, useUnicode), b.Label, b.AnchorStepID)
				for i, c := range b.ExitCriteria {
					mark := " "
					if c.Met {
						mark = "x"
					}
					fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, mark, c.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}


package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "runbook",
		Short:         "Track manual runbooks as Markdown checklists",
		Long:          "runbook keeps an operator's step-by-step checklist in a Markdown table, recording evidence, anchors and troubleshooting branches. It never runs the commands itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Settings file (default ~/.runbook/config.toml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newAddCmd(flags))
	cmd.AddCommand(newDoneCmd(flags))
	cmd.AddCommand(newAnchorCmd(flags))
	cmd.AddCommand(newEvidenceCmd(flags))
	cmd.AddCommand(newPendingCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newBranchCmd(flags))
	cmd.AddCommand(newHistoryCmd(flags))
	cmd.AddCommand(newRegistryCmd(flags))
	cmd.AddCommand(newFmtCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newTUICmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

type pendingOptions struct {
	jsonOutput bool
}

func newPendingCmd(flags *rootFlags) *cobra.Command {
	opts := &pendingOptions{}

	cmd := &cobra.Command{
		Use:   "pending <file>",
		Short: "List steps that are not done yet, in runbook order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadRunbook(cmd, flags, "list pending steps", args[0])
			if err != nil {
				return err
			}
			defer loaded.app.Close()

			if opts.jsonOutput {
				return renderPendingJSON(cmd, loaded.rb)
			}
			return renderPendingText(cmd, loaded.rb)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderPendingText(cmd *cobra.Command, rb *runbook.Runbook) error {
	out := cmd.OutOrStdout()
	useUnicode := supportsUnicode(out)

	count := 0
	for step := range rb.ListPending() {
		count++
		fmt.Fprintf(out, "%s %s  %s\n", statusIcon(step.Status, useUnicode), step.ID, step.Description)
		fmt.Fprintf(out, "    expect: %s\n", step.ExpectedResult)
		if step.AnchorReference != "" {
			fmt.Fprintf(out, "    anchor: %s\n", step.AnchorReference)
		}
	}

	p := rb.Progress()
	if count == 0 {
		fmt.Fprintf(out, "All %d steps done.\n", p.Total)
		return nil
	}
	fmt.Fprintf(out, "\n%d pending of %d steps\n", p.Pending(), p.Total)
	return nil
}

type pendingJSONPayload struct {
	Title   string         `json:"title"`
	Pending []runbook.Step `json:"pending"`
}

func renderPendingJSON(cmd *cobra.Command, rb *runbook.Runbook) error {
	payload := pendingJSONPayload{Title: rb.Title, Pending: []runbook.Step{}}
	for step := range rb.ListPending() {
		payload.Pending = append(payload.Pending, step)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

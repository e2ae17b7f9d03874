package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/markdown"
	"github.com/alexisbeaulieu97/runbook/pkg/diff"
)

var errNotCanonical = errors.New("runbook is not in canonical form")

func newFmtCmd(flags *rootFlags) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a runbook in canonical Markdown",
		Long:  "Rewrite a runbook with renumbered rows, escaped cells and aligned sections. Prose and unknown tables are dropped. With --check the file is left alone and a diff is printed instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := newAppContext(cmd, flags, "fmt")
			if err != nil {
				return err
			}
			defer app.Close()

			path, err := app.resolveRunbook(args[0])
			if err != nil {
				return newCommandError("format", fmt.Sprintf("resolving runbook %q", args[0]), err, "Pass an existing runbook file or a registered id.")
			}

			current, err := os.ReadFile(path)
			if err != nil {
				return newCommandError("format", fmt.Sprintf("reading %s", path), err, suggestionFor(err))
			}
			rb, err := markdown.Parse(path, current)
			if err != nil {
				return newCommandError("format", fmt.Sprintf("parsing %s", path), err, suggestionFor(err))
			}

			wanted := markdown.Format(rb)
			out := cmd.OutOrStdout()
			if bytes.Equal(current, wanted) {
				fmt.Fprintf(out, "✓ %s is already formatted\n", path)
				return nil
			}

			if check {
				fmt.Fprint(out, diff.GenerateUnifiedDiff(current, wanted, path, path+" (formatted)"))
				return newCommandError("check formatting", path, errNotCanonical, "Run 'runbook fmt "+args[0]+"' to rewrite it.")
			}

			if err := app.workspace.Save(path, rb); err != nil {
				return newCommandError("format", fmt.Sprintf("writing %s", path), err, suggestionFor(err))
			}
			fmt.Fprintf(out, "✓ Formatted %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Report differences without rewriting the file")

	return cmd
}

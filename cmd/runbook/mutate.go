package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

// mutateRunbook resolves arg, applies m through the workspace and reports
// failures as command errors.
func mutateRunbook(cmd *cobra.Command, flags *rootFlags, operation, arg string, m workspace.Mutation) (*runbook.Runbook, string, error) {
	ctx, app, err := newAppContext(cmd, flags, operation)
	if err != nil {
		return nil, "", err
	}
	defer app.Close()

	path, err := app.resolveRunbook(arg)
	if err != nil {
		app.log.Error(err, "invalid runbook path")
		return nil, "", newCommandError(operation, fmt.Sprintf("resolving runbook %q", arg), err, "Pass an existing runbook file or a registered id; create one with 'runbook init'.")
	}

	log := app.log.WithFields(map[string]any{"path": path})
	rb, err := app.workspace.Mutate(ctx, path, m)
	if err != nil {
		log.Error(err, operation+" failed")
		return nil, "", newCommandError(operation, fmt.Sprintf("updating %s", path), err, suggestionFor(err))
	}
	log.Debug(operation + " succeeded")
	return rb, path, nil
}

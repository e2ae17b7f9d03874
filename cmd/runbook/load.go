package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

// loadedRunbook is a read-only view of one runbook file for a command.
type loadedRunbook struct {
	ctx  context.Context
	app  *appContext
	path string
	rb   *runbook.Runbook
}

// loadRunbook opens the app context and decodes the runbook named by arg. The
// caller must Close the returned app context.
func loadRunbook(cmd *cobra.Command, flags *rootFlags, operation, arg string) (*loadedRunbook, error) {
	ctx, app, err := newAppContext(cmd, flags, operation)
	if err != nil {
		return nil, err
	}

	path, err := app.resolveRunbook(arg)
	if err != nil {
		app.Close()
		return nil, newCommandError(operation, fmt.Sprintf("resolving runbook %q", arg), err, "Pass an existing runbook file or a registered id.")
	}

	rb, err := app.workspace.Load(path)
	if err != nil {
		app.log.WithFields(map[string]any{"path": path}).Error(err, "load failed")
		app.Close()
		return nil, newCommandError(operation, fmt.Sprintf("reading %s", path), err, suggestionFor(err))
	}

	return &loadedRunbook{ctx: ctx, app: app, path: path, rb: rb}, nil
}

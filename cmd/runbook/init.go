package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/config"
	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/registry"
)

type initOptions struct {
	title    string
	from     string
	register bool
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Create a new runbook file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Runbook title (defaults to the definition title or file name)")
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "YAML definition to seed steps and branches from")
	cmd.Flags().BoolVar(&opts.register, "register", false, "Also add the new runbook to the registry")

	return cmd
}

func runInit(cmd *cobra.Command, flags *rootFlags, file string, opts *initOptions) error {
	ctx, app, err := newAppContext(cmd, flags, "init")
	if err != nil {
		return err
	}
	defer app.Close()

	path, err := normalizePath(file)
	if err != nil {
		return newCommandError("init", fmt.Sprintf("resolving path %q", file), err, "Pass the path of the Markdown file to create.")
	}

	var rb *runbook.Runbook
	if opts.from != "" {
		def, err := config.ParseDefinition(opts.from)
		if err != nil {
			app.log.Error(err, "definition invalid")
			return newCommandError("init", fmt.Sprintf("reading definition %s", opts.from), err, "Fix the definition errors shown above and try again.")
		}
		rb, err = def.Build()
		if err != nil {
			return newCommandError("init", fmt.Sprintf("building runbook from %s", opts.from), err, suggestionFor(err))
		}
	} else {
		rb = runbook.New("")
	}

	switch {
	case strings.TrimSpace(opts.title) != "":
		rb.Title = strings.TrimSpace(opts.title)
	case rb.Title == "":
		rb.Title = deriveTitleFromPath(path)
	}

	if err := app.workspace.Create(ctx, path, rb); err != nil {
		app.log.Error(err, "create failed")
		return newCommandError("init", fmt.Sprintf("creating %s", path), err, "Choose a path that does not exist yet; existing runbooks are never overwritten.")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created runbook %q at %s (%d steps)\n", rb.Title, path, rb.Len())

	if opts.register {
		reg, err := app.openRegistry()
		if err != nil {
			return newCommandError("init", "loading registry", err, "Check that you have write access to the state directory.")
		}
		entry := registry.Entry{ID: reg.UniqueID(path), Title: rb.Title, Path: path, RegisteredAt: time.Now().UTC()}
		if err := reg.Add(entry); err != nil {
			return newCommandError("init", fmt.Sprintf("registering %s", path), err, "Run 'runbook registry list' to see existing entries.")
		}
		if err := reg.Save(); err != nil {
			return newCommandError("init", "saving registry", err, "Check disk space and file permissions, then retry.")
		}
		fmt.Fprintf(out, "  Registered as %s\n", entry.ID)
	}

	app.log.WithFields(map[string]any{"path": path, "steps": rb.Len()}).Info("runbook created")
	return nil
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/journal"
	"github.com/alexisbeaulieu97/runbook/internal/logger"
	"github.com/alexisbeaulieu97/runbook/internal/registry"
	"github.com/alexisbeaulieu97/runbook/internal/settings"
	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

// appContext bundles the services one command invocation needs.
type appContext struct {
	settings  settings.Settings
	log       *logger.Logger
	workspace *workspace.Service
	journal   *journal.Journal
}

// newAppContext loads settings, builds the logger and opens the journal. The
// returned context carries the invocation's correlation id.
func newAppContext(cmd *cobra.Command, flags *rootFlags, command string) (context.Context, *appContext, error) {
	configPath := flags.configPath
	if configPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, nil, newCommandError(command, "determining settings path", err, "Ensure your HOME directory is set correctly or pass --config.")
		}
		configPath = p
	}

	cfg, err := settings.Load(configPath)
	if err != nil {
		return nil, nil, newCommandError(command, "loading settings", err, "Fix "+configPath+" and try again.")
	}

	level := cfg.LogLevel
	if flags.verbose {
		level = "debug"
	}
	base, err := logger.New(logger.Options{Level: level, HumanReadable: cfg.HumanLogs, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, newCommandError(command, "creating logger", err, "Use one of trace, debug, info, warn, error or disabled for log_level.")
	}

	correlationID := logger.NewCorrelationID()
	log := base.WithCorrelationID(correlationID).WithFields(map[string]any{"command": command})

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := logger.ContextWithCorrelationID(parent, correlationID)

	app := &appContext{settings: cfg, log: log}

	var recorder journal.Recorder = journal.Nop{}
	if cfg.Journal {
		j, err := journal.Open(ctx, cfg.JournalPath())
		if err != nil {
			log.Warn("journal unavailable, continuing without history: " + err.Error())
		} else {
			app.journal = j
			recorder = j
		}
	}
	app.workspace = workspace.NewService(recorder, log)

	log.Debug("command started")
	return ctx, app, nil
}

// Close releases the journal.
func (a *appContext) Close() {
	if a == nil || a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		a.log.Error(err, "closing journal")
	}
}

func (a *appContext) openRegistry() (*registry.Registry, error) {
	return registry.NewRegistry(a.settings.RegistryPath())
}

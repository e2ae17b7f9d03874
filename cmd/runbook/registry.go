package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/registry"
)

func newRegistryCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Short:   "Manage the index of tracked runbooks",
		Long:    "Registered runbooks can be referred to by id instead of by path in every command.",
		Aliases: []string{"reg"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRegistryAddCmd(flags))
	cmd.AddCommand(newRegistryListCmd(flags))
	cmd.AddCommand(newRegistryRemoveCmd(flags))

	return cmd
}

func newRegistryAddCmd(flags *rootFlags) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Register a runbook file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := newAppContext(cmd, flags, "registry.add")
			if err != nil {
				return err
			}
			defer app.Close()

			absPath, err := validateAndNormalizePath(args[0])
			if err != nil {
				return newCommandError("register", fmt.Sprintf("resolving path %q", args[0]), err, "Check that the file exists and you have permission to read it.")
			}

			rb, err := app.workspace.Load(absPath)
			if err != nil {
				return newCommandError("register", fmt.Sprintf("reading %s", absPath), err, suggestionFor(err))
			}

			reg, err := app.openRegistry()
			if err != nil {
				return newCommandError("register", "loading registry", err, "Check that you have write access to the state directory.")
			}

			if id == "" {
				id = reg.UniqueID(absPath)
			}
			if err := registry.ValidateID(id); err != nil {
				return newCommandError("register", "validating runbook ID", err, "Provide an ID using lowercase letters, numbers, and hyphens. IDs must start and end with alphanumeric characters.")
			}

			entry := registry.Entry{
				ID:           id,
				Title:        valueOrFallback(rb.Title, deriveTitleFromPath(absPath)),
				Path:         absPath,
				RegisteredAt: time.Now().UTC(),
			}
			if err := reg.Add(entry); err != nil {
				return newCommandError("register", fmt.Sprintf("adding runbook %q", id), err, "Use a different ID or remove the existing entry first.")
			}
			if err := reg.Save(); err != nil {
				return newCommandError("register", "saving registry", err, "Check disk space and file permissions, then retry.")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Registered '%s' (%s)\n", entry.ID, entry.Title)
			fmt.Fprintf(out, "  Path: %s\n", entry.Path)
			app.log.WithFields(map[string]any{"runbook_id": entry.ID, "path": absPath}).Info("runbook registered")
			return nil
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Runbook ID (derived from the file name if omitted)")

	return cmd
}

type registryListItem struct {
	registry.Entry
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Missing bool   `json:"missing,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newRegistryListCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered runbooks with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := newAppContext(cmd, flags, "registry.list")
			if err != nil {
				return err
			}
			defer app.Close()

			reg, err := app.openRegistry()
			if err != nil {
				return newCommandError("list", "loading runbook registry", err, "Check registry file permissions and try again.")
			}

			items := make([]registryListItem, 0)
			for _, e := range reg.List() {
				item := registryListItem{Entry: e}
				rb, err := app.workspace.Load(e.Path)
				if err != nil {
					item.Missing = true
					item.Error = err.Error()
				} else {
					p := rb.Progress()
					item.Done, item.Total = p.Done, p.Total
				}
				items = append(items, item)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(items)
			}

			if len(items) == 0 {
				fmt.Fprintln(out, "No runbooks registered yet.")
				fmt.Fprintln(out, "\nRun 'runbook registry add <file>' to add your first runbook.")
				return nil
			}

			writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tTITLE\tPROGRESS\tPATH")
			for _, item := range items {
				progress := fmt.Sprintf("%d/%d", item.Done, item.Total)
				if item.Missing {
					progress = "unreadable"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", item.ID, valueOrFallback(item.Title, "(untitled)"), progress, item.Path)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newRegistryRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Unregister a runbook (the file is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := newAppContext(cmd, flags, "registry.remove")
			if err != nil {
				return err
			}
			defer app.Close()

			reg, err := app.openRegistry()
			if err != nil {
				return newCommandError("remove", "loading runbook registry", err, "Check registry file permissions and try again.")
			}
			if err := reg.Remove(args[0]); err != nil {
				return newCommandError("remove", fmt.Sprintf("removing runbook %q", args[0]), err, "Run 'runbook registry list' to see registered ids.")
			}
			if err := reg.Save(); err != nil {
				return newCommandError("remove", "saving registry", err, "Check disk space and file permissions, then retry.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed '%s' from the registry\n", args[0])
			return nil
		},
	}
}

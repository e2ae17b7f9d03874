package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/markdown"
	"github.com/alexisbeaulieu97/runbook/internal/settings"
)

type showOptions struct {
	render     bool
	jsonOutput bool
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a runbook as Markdown, rendered for the terminal, or as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.render && opts.jsonOutput {
				return newCommandError("show", "choosing output", fmt.Errorf("--render and --json are mutually exclusive"), "Pick one output format.")
			}

			loaded, err := loadRunbook(cmd, flags, "show", args[0])
			if err != nil {
				return err
			}
			defer loaded.app.Close()

			switch {
			case opts.jsonOutput:
				return renderShowJSON(cmd, loaded.rb)
			case opts.render:
				out, err := renderMarkdown(markdown.Format(loaded.rb), loaded.app.settings)
				if err != nil {
					return newCommandError("show", "rendering Markdown", err, "Set render_style to a glamour style such as dark, light, notty or auto.")
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			default:
				return markdown.Encode(cmd.OutOrStdout(), loaded.rb)
			}
		},
	}

	cmd.Flags().BoolVar(&opts.render, "render", false, "Render Markdown for the terminal")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderMarkdown(source []byte, cfg settings.Settings) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if cfg.RenderStyle != "" && cfg.RenderStyle != "auto" {
		styleOpt = glamour.WithStandardStyle(cfg.RenderStyle)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(cfg.WordWrap))
	if err != nil {
		return "", err
	}
	return renderer.Render(string(source))
}

type showJSONPayload struct {
	Title    string                          `json:"title"`
	Progress runbook.Progress                `json:"progress"`
	Steps    []runbook.Step                  `json:"steps"`
	Branches []runbook.TroubleshootingBranch `json:"branches"`
}

func renderShowJSON(cmd *cobra.Command, rb *runbook.Runbook) error {
	payload := showJSONPayload{
		Title:    rb.Title,
		Progress: rb.Progress(),
		Steps:    rb.Steps(),
		Branches: rb.Branches(),
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/tui/components"
)

// View renders the checklist.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render(m.title()))
	sections = append(sections, m.progress.View(m.rb.Progress()))

	heading := "Steps"
	if m.pendingOnly {
		heading = "Pending steps"
	}
	sections = append(sections, sectionStyle.Render(heading))

	steps := m.visible()
	if len(steps) == 0 {
		if m.pendingOnly {
			sections = append(sections, doneStyle.Render("  all steps done"))
		} else {
			sections = append(sections, pendingStyle.Render("  no steps yet"))
		}
	}
	for i, step := range steps {
		sections = append(sections, m.renderStep(step, i == m.cursor))
	}

	if step, ok := m.selected(); ok {
		if branches := m.rb.BranchesFor(step.ID); len(branches) > 0 {
			sections = append(sections, sectionStyle.Render("Troubleshooting"))
			sections = append(sections, components.NewBranchSummary(branches).View())
		}
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}

	sections = append(sections, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStep(step runbook.Step, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}

	box := pendingStyle.Render("[ ]")
	if step.IsDone() {
		box = doneStyle.Render("[x]")
	}

	line := fmt.Sprintf("%s%s %s  %s", pointer, box, lipgloss.NewStyle().Bold(true).Render(step.ID), step.Description)
	if !selected {
		return line
	}

	details := []string{"expect: " + step.ExpectedResult}
	if strings.TrimSpace(step.Evidence) != "" {
		details = append(details, "evidence: "+step.Evidence)
	}
	if strings.TrimSpace(step.AnchorReference) != "" {
		details = append(details, "anchor: "+step.AnchorReference)
	}
	return line + "\n" + detailStyle.Render(strings.Join(details, "\n"))
}

func (m Model) title() string {
	if strings.TrimSpace(m.rb.Title) != "" {
		return m.rb.Title
	}
	return "Runbook"
}

package markdown

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

const (
	checkboxPending = "[ ]"
	checkboxDone    = "[x]"
)

var (
	stepsHeader  = []string{"#", "Step", "Description", "Expected Result", "Evidence", "Anchor", "Done"}
	branchHeader = []string{"Branch", "Step", "Status", "Exit Criterion", "Met"}
)

// StepRow is one decoded line of the steps table.
type StepRow struct {
	Seq  int
	Step runbook.Step
}

// FormatStepRow renders a step as a table row:
//
//	| <seq> | **<StepID>** | <description> | <expected result> | <evidence> | <anchor link or blank> | [ ] or [x] |
func FormatStepRow(seq int, step runbook.Step) string {
	return formatRow([]string{
		fmt.Sprintf("%d", seq),
		"**" + escapeCell(step.ID) + "**",
		escapeCell(step.Description),
		escapeCell(step.ExpectedResult),
		escapeCell(step.Evidence),
		formatAnchor(step.AnchorReference),
		checkbox(step.IsDone()),
	})
}

// ParseStepRow decodes a single steps-table row produced by FormatStepRow or
// written by hand in the same column order.
func ParseStepRow(line string) (StepRow, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return StepRow{}, fmt.Errorf("empty row")
	}
	var b strings.Builder
	b.WriteString(formatRow(stepsHeader))
	b.WriteString("\n")
	b.WriteString(delimiterRow(len(stepsHeader)))
	b.WriteString("\n")
	b.WriteString(line)
	b.WriteString("\n")

	doc, err := parseDocument([]byte(b.String()))
	if err != nil {
		return StepRow{}, unwrapRowError(err)
	}
	if len(doc.steps) != 1 {
		return StepRow{}, fmt.Errorf("expected one step row, found %d", len(doc.steps))
	}
	return doc.steps[0].StepRow, nil
}

func formatBranchRow(branch runbook.TroubleshootingBranch, criterion runbook.Criterion) string {
	return formatRow([]string{
		"**" + escapeCell(branch.Label) + "**",
		escapeCell(branch.AnchorStepID),
		string(branch.Status),
		escapeCell(criterion.Description),
		checkbox(criterion.Met),
	})
}

func formatRow(cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}
	return b.String()
}

func delimiterRow(columns int) string {
	cells := make([]string, columns)
	for i := range cells {
		cells[i] = "---"
	}
	return formatRow(cells)
}

func checkbox(checked bool) string {
	if checked {
		return checkboxDone
	}
	return checkboxPending
}

func parseCheckbox(cell string) (bool, error) {
	switch strings.ToLower(strings.ReplaceAll(cell, " ", "")) {
	case "[]":
		return false, nil
	case "[x]":
		return true, nil
	}
	return false, fmt.Errorf("status cell must be %q or %q, got %q", checkboxPending, checkboxDone, cell)
}

package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

// Progress renders how many steps of a runbook are done.
type Progress struct {
	bar progress.Model
}

// NewProgress creates a progress component of the given bar width.
func NewProgress(width int) Progress {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = width
	return Progress{bar: bar}
}

// View renders the label and bar for p.
func (c Progress) View(p runbook.Progress) string {
	ratio := 0.0
	if p.Total > 0 {
		ratio = math.Min(1.0, float64(p.Done)/float64(p.Total))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", p.Done, p.Total))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", c.bar.ViewAs(ratio))
}

package components

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

// BranchSummary renders the troubleshooting branches of one step.
type BranchSummary struct {
	branches []runbook.TroubleshootingBranch
}

// NewBranchSummary creates a summary for the given branches.
func NewBranchSummary(branches []runbook.TroubleshootingBranch) BranchSummary {
	return BranchSummary{branches: branches}
}

// View renders one line per branch followed by its exit criteria.
func (s BranchSummary) View() string {
	var lines []string
	for _, b := range s.branches {
		met := len(b.ExitCriteria) - len(b.Unmet())
		lines = append(lines, fmt.Sprintf("%s (%s, %d/%d criteria met)", b.Label, b.Status, met, len(b.ExitCriteria)))
		for _, c := range b.ExitCriteria {
			mark := "[ ]"
			if c.Met {
				mark = "[x]"
			}
			lines = append(lines, fmt.Sprintf("  %s %s", mark, c.Description))
		}
	}
	return strings.Join(lines, "\n")
}

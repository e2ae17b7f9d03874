package config

import (
	"fmt"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

// Build turns a validated definition into a runbook model. Steps keep their
// declared order; branches are opened in declaration order so their labels
// are deterministic.
func (d *Definition) Build() (*runbook.Runbook, error) {
	rb := runbook.New(d.Title)

	for i, step := range d.Steps {
		if err := rb.AddStep(step.ID, step.Description, step.ExpectedResult); err != nil {
			return nil, fmt.Errorf("%s: %w", fieldForStep(i, "id"), err)
		}
		if step.Evidence != "" {
			if err := rb.RecordEvidence(step.ID, step.Evidence); err != nil {
				return nil, err
			}
		}
		if step.Anchor != "" {
			if err := rb.AttachAnchor(step.ID, step.Anchor); err != nil {
				return nil, err
			}
		}
		if step.Done {
			if err := rb.MarkDone(step.ID); err != nil {
				return nil, err
			}
		}
	}

	for i, branch := range d.Branches {
		if _, err := rb.OpenBranch(branch.Step, branch.ExitCriteria...); err != nil {
			return nil, fmt.Errorf("branches[%d]: %w", i, err)
		}
	}

	return rb, nil
}

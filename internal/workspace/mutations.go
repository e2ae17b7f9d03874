package workspace

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/journal"
)

// AddStep appends a pending step.
func AddStep(id, description, expectedResult string) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		if err := rb.AddStep(id, description, expectedResult); err != nil {
			return nil, err
		}
		return []Change{{Kind: journal.KindStepAdded, Subject: id, Detail: description}}, nil
	}
}

// MarkDone completes a step. Completing a done step journals nothing.
func MarkDone(id string) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		step, err := rb.Step(id)
		if err != nil {
			return nil, err
		}
		if step.IsDone() {
			return nil, nil
		}
		if err := rb.MarkDone(id); err != nil {
			return nil, err
		}
		return []Change{{Kind: journal.KindStepDone, Subject: id}}, nil
	}
}

// AttachAnchor sets a step's anchor reference.
func AttachAnchor(id, reference string) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		step, err := rb.Step(id)
		if err != nil {
			return nil, err
		}
		if step.AnchorReference == reference {
			return nil, nil
		}
		if err := rb.AttachAnchor(id, reference); err != nil {
			return nil, err
		}
		return []Change{{Kind: journal.KindAnchorAttached, Subject: id, Detail: reference}}, nil
	}
}

// RecordEvidence replaces a step's evidence.
func RecordEvidence(id, evidence string) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		step, err := rb.Step(id)
		if err != nil {
			return nil, err
		}
		if step.Evidence == evidence {
			return nil, nil
		}
		if err := rb.RecordEvidence(id, evidence); err != nil {
			return nil, err
		}
		return []Change{{Kind: journal.KindEvidenceRecorded, Subject: id, Detail: evidence}}, nil
	}
}

// OpenBranch starts a troubleshooting branch on stepID. The allocated label is
// reported through opened when it is non-nil.
func OpenBranch(stepID string, criteria []string, opened *runbook.TroubleshootingBranch) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		branch, err := rb.OpenBranch(stepID, criteria...)
		if err != nil {
			return nil, err
		}
		if opened != nil {
			*opened = branch
		}
		return []Change{{
			Kind:    journal.KindBranchOpened,
			Subject: branch.Label,
			Detail:  strings.Join(criteria, "; "),
		}}, nil
	}
}

// MeetCriterion satisfies exit criterion index (zero based) of a branch.
func MeetCriterion(label string, index int) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		branch, err := rb.Branch(label)
		if err != nil {
			return nil, err
		}
		if index >= 0 && index < len(branch.ExitCriteria) && branch.ExitCriteria[index].Met {
			return nil, nil
		}
		if err := rb.MeetCriterion(label, index); err != nil {
			return nil, err
		}
		return []Change{{
			Kind:    journal.KindCriterionMet,
			Subject: label,
			Detail:  fmt.Sprintf("%d: %s", index+1, branch.ExitCriteria[index].Description),
		}}, nil
	}
}

// CloseBranch closes a branch whose exit criteria all hold.
func CloseBranch(label string) Mutation {
	return func(rb *runbook.Runbook) ([]Change, error) {
		branch, err := rb.Branch(label)
		if err != nil {
			return nil, err
		}
		if branch.IsClosed() {
			return nil, nil
		}
		if err := rb.CloseBranch(label); err != nil {
			return nil, err
		}
		return []Change{{Kind: journal.KindBranchClosed, Subject: label}}, nil
	}
}

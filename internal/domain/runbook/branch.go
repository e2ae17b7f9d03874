package runbook

import (
	"fmt"
	"strings"
)

// BranchStatus is the lifecycle state of a troubleshooting branch.
type BranchStatus string

const (
	BranchOpen   BranchStatus = "open"
	BranchClosed BranchStatus = "closed"
)

// Valid reports whether s is a known branch status.
func (s BranchStatus) Valid() bool {
	return s == BranchOpen || s == BranchClosed
}

// Criterion is one exit condition of a troubleshooting branch.
type Criterion struct {
	Description string `json:"description"`
	Met         bool   `json:"met"`
}

// TroubleshootingBranch isolates the diagnosis of one step. It refers to the
// step by id only and does not own it.
type TroubleshootingBranch struct {
	AnchorStepID string       `json:"anchor_step_id"`
	Label        string       `json:"label"`
	ExitCriteria []Criterion  `json:"exit_criteria"`
	Status       BranchStatus `json:"status"`
}

// Satisfied reports whether every exit criterion holds.
func (b TroubleshootingBranch) Satisfied() bool {
	for _, c := range b.ExitCriteria {
		if !c.Met {
			return false
		}
	}
	return true
}

// Unmet returns the criteria that do not hold yet.
func (b TroubleshootingBranch) Unmet() []Criterion {
	var out []Criterion
	for _, c := range b.ExitCriteria {
		if !c.Met {
			out = append(out, c)
		}
	}
	return out
}

// IsClosed reports whether the branch has been closed.
func (b TroubleshootingBranch) IsClosed() bool {
	return b.Status == BranchClosed
}

func (b TroubleshootingBranch) clone() TroubleshootingBranch {
	b.ExitCriteria = append([]Criterion(nil), b.ExitCriteria...)
	return b
}

const maxBranchesPerStep = 26

// BranchLabel builds the label of the n-th branch (zero based) for a step:
// "S04-a", "S04-b", ...
func BranchLabel(stepID string, n int) string {
	return fmt.Sprintf("%s-%c", stepID, 'a'+rune(n))
}

// ParseBranchLabel splits a label into the anchor step id and the zero-based
// branch ordinal.
func ParseBranchLabel(label string) (string, int, error) {
	idx := strings.LastIndex(label, "-")
	if idx <= 0 || idx != len(label)-2 {
		return "", 0, newValidationError("branch label must be <step-id>-<letter>", map[string]interface{}{"label": label})
	}
	letter := label[idx+1]
	if letter < 'a' || letter > 'z' {
		return "", 0, newValidationError("branch label suffix must be a lowercase letter", map[string]interface{}{"label": label})
	}
	stepID := label[:idx]
	if err := ValidateStepID(stepID); err != nil {
		return "", 0, err
	}
	return stepID, int(letter - 'a'), nil
}

// OpenBranch starts a troubleshooting branch for stepID with the given exit
// criteria and returns it. The label uses the next free letter for the step.
func (r *Runbook) OpenBranch(stepID string, criteria ...string) (TroubleshootingBranch, error) {
	if _, err := r.lookup(stepID); err != nil {
		return TroubleshootingBranch{}, err
	}
	if len(criteria) == 0 {
		return TroubleshootingBranch{}, newValidationError("branch requires at least one exit criterion", map[string]interface{}{"step_id": stepID})
	}

	next := 0
	for _, b := range r.branches {
		if b.AnchorStepID != stepID {
			continue
		}
		if _, n, err := ParseBranchLabel(b.Label); err == nil && n >= next {
			next = n + 1
		}
	}
	if next >= maxBranchesPerStep {
		return TroubleshootingBranch{}, newValidationError("no branch labels left for step", map[string]interface{}{"step_id": stepID})
	}

	branch := TroubleshootingBranch{
		AnchorStepID: stepID,
		Label:        BranchLabel(stepID, next),
		ExitCriteria: make([]Criterion, 0, len(criteria)),
		Status:       BranchOpen,
	}
	for _, c := range criteria {
		c = strings.TrimSpace(c)
		if c == "" {
			return TroubleshootingBranch{}, newValidationError("exit criterion cannot be blank", map[string]interface{}{"step_id": stepID})
		}
		branch.ExitCriteria = append(branch.ExitCriteria, Criterion{Description: c})
	}

	r.appendBranch(branch)
	return branch.clone(), nil
}

// RestoreBranch appends a branch read back from storage. The anchor step is a
// weak reference and does not have to exist.
func (r *Runbook) RestoreBranch(branch TroubleshootingBranch) error {
	stepID, _, err := ParseBranchLabel(branch.Label)
	if err != nil {
		return err
	}
	if branch.AnchorStepID == "" {
		branch.AnchorStepID = stepID
	}
	if stepID != branch.AnchorStepID {
		return newValidationError("branch label does not match its anchor step", map[string]interface{}{
			"label":   branch.Label,
			"step_id": branch.AnchorStepID,
		})
	}
	if branch.Status == "" {
		branch.Status = BranchOpen
	}
	if !branch.Status.Valid() {
		return newValidationError("unknown branch status", map[string]interface{}{"label": branch.Label, "status": string(branch.Status)})
	}
	if len(branch.ExitCriteria) == 0 {
		return newValidationError("branch requires at least one exit criterion", map[string]interface{}{"label": branch.Label})
	}
	if branch.IsClosed() && !branch.Satisfied() {
		return newStateError("closed branch has unmet exit criteria", map[string]interface{}{"label": branch.Label})
	}
	r.ensureIndex()
	if _, ok := r.branchIndex[branch.Label]; ok {
		return newDuplicateError(branch.Label)
	}
	r.appendBranch(branch.clone())
	return nil
}

// MeetCriterion marks the exit criterion at index (zero based) as satisfied.
func (r *Runbook) MeetCriterion(label string, index int) error {
	i, err := r.lookupBranch(label)
	if err != nil {
		return err
	}
	branch := &r.branches[i]
	if index < 0 || index >= len(branch.ExitCriteria) {
		return newNotFoundError("exit criterion", fmt.Sprintf("%s#%d", label, index))
	}
	branch.ExitCriteria[index].Met = true
	return nil
}

// CloseBranch closes the branch once all its exit criteria hold. Closing an
// already closed branch is a no-op.
func (r *Runbook) CloseBranch(label string) error {
	i, err := r.lookupBranch(label)
	if err != nil {
		return err
	}
	branch := &r.branches[i]
	if branch.IsClosed() {
		return nil
	}
	if !branch.Satisfied() {
		unmet := make([]string, 0)
		for _, c := range branch.Unmet() {
			unmet = append(unmet, c.Description)
		}
		return newStateError("branch has unmet exit criteria", map[string]interface{}{
			"label": label,
			"unmet": unmet,
		})
	}
	branch.Status = BranchClosed
	return nil
}

// Branch returns a copy of the branch with the given label.
func (r *Runbook) Branch(label string) (TroubleshootingBranch, error) {
	i, err := r.lookupBranch(label)
	if err != nil {
		return TroubleshootingBranch{}, err
	}
	return r.branches[i].clone(), nil
}

// Branches returns copies of all branches in the order they were opened.
func (r *Runbook) Branches() []TroubleshootingBranch {
	out := make([]TroubleshootingBranch, len(r.branches))
	for i, b := range r.branches {
		out[i] = b.clone()
	}
	return out
}

// BranchesFor returns the branches anchored on stepID.
func (r *Runbook) BranchesFor(stepID string) []TroubleshootingBranch {
	var out []TroubleshootingBranch
	for _, b := range r.branches {
		if b.AnchorStepID == stepID {
			out = append(out, b.clone())
		}
	}
	return out
}

func (r *Runbook) appendBranch(branch TroubleshootingBranch) {
	r.ensureIndex()
	r.branchIndex[branch.Label] = len(r.branches)
	r.branches = append(r.branches, branch)
}

func (r *Runbook) lookupBranch(label string) (int, error) {
	if i, ok := r.branchIndex[label]; ok {
		return i, nil
	}
	return -1, newNotFoundError("branch", label)
}

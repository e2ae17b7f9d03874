// Package runbook holds the in-memory model of a manual checklist: ordered
// steps with completion status, anchor references, and troubleshooting
// branches that isolate the diagnosis of a single step.
//
// The model is not safe for concurrent use. Steps and branches are never
// removed; only their status moves forward.
package runbook

import "iter"

// Runbook is an ordered checklist of steps. The zero value is an empty,
// untitled runbook ready for use.
type Runbook struct {
	Title string

	steps       []Step
	index       map[string]int
	branches    []TroubleshootingBranch
	branchIndex map[string]int
}

// Progress summarises completion of a runbook.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Pending returns the number of steps still open.
func (p Progress) Pending() int {
	return p.Total - p.Done
}

// Complete reports whether every step is done. An empty runbook is not
// considered complete.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Done == p.Total
}

// New returns an empty runbook with the given title.
func New(title string) *Runbook {
	return &Runbook{Title: title}
}

// AddStep appends a pending step. It fails with a DUPLICATE_ID error when id
// is already used, leaving the runbook unchanged.
func (r *Runbook) AddStep(id, description, expectedResult string) error {
	return r.RestoreStep(Step{
		ID:             id,
		Description:    description,
		ExpectedResult: expectedResult,
		Status:         StatusPending,
	})
}

// RestoreStep appends a fully populated step, keeping its recorded status.
// Decoders use it to rebuild a runbook from storage.
func (r *Runbook) RestoreStep(step Step) error {
	if step.Status == "" {
		step.Status = StatusPending
	}
	if err := step.Validate(); err != nil {
		return err
	}
	r.ensureIndex()
	if _, ok := r.index[step.ID]; ok {
		return newDuplicateError(step.ID)
	}
	r.index[step.ID] = len(r.steps)
	r.steps = append(r.steps, step)
	return nil
}

// MarkDone completes the step. Marking a done step again is a no-op.
func (r *Runbook) MarkDone(id string) error {
	i, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.steps[i].Status = StatusDone
	return nil
}

// AttachAnchor sets the step's anchor reference, replacing any previous one.
// The step's status is left alone.
func (r *Runbook) AttachAnchor(id, reference string) error {
	i, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.steps[i].AnchorReference = reference
	return nil
}

// RecordEvidence replaces the step's evidence notes.
func (r *Runbook) RecordEvidence(id, evidence string) error {
	i, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.steps[i].Evidence = evidence
	return nil
}

// Step returns a copy of the step with the given id.
func (r *Runbook) Step(id string) (Step, error) {
	i, err := r.lookup(id)
	if err != nil {
		return Step{}, err
	}
	return r.steps[i], nil
}

// Has reports whether a step with the given id exists.
func (r *Runbook) Has(id string) bool {
	_, err := r.lookup(id)
	return err == nil
}

// Steps returns a copy of all steps in insertion order.
func (r *Runbook) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Len returns the number of steps.
func (r *Runbook) Len() int {
	return len(r.steps)
}

// ListPending yields pending steps in insertion order. Each range over the
// returned sequence walks the runbook's current state.
func (r *Runbook) ListPending() iter.Seq[Step] {
	return r.filter(StatusPending)
}

// Done yields completed steps in insertion order.
func (r *Runbook) Done() iter.Seq[Step] {
	return r.filter(StatusDone)
}

// Progress counts done and total steps.
func (r *Runbook) Progress() Progress {
	p := Progress{Total: len(r.steps)}
	for _, step := range r.steps {
		if step.IsDone() {
			p.Done++
		}
	}
	return p
}

func (r *Runbook) filter(status Status) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for i := 0; i < len(r.steps); i++ {
			if r.steps[i].Status != status {
				continue
			}
			if !yield(r.steps[i]) {
				return
			}
		}
	}
}

func (r *Runbook) lookup(id string) (int, error) {
	if i, ok := r.index[id]; ok {
		return i, nil
	}
	return -1, newNotFoundError("step", id)
}

func (r *Runbook) ensureIndex() {
	if r.index == nil {
		r.index = make(map[string]int, len(r.steps))
	}
	if r.branchIndex == nil {
		r.branchIndex = make(map[string]int, len(r.branches))
	}
}

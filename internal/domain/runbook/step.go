package runbook

import "regexp"

var stepIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Status is the completion state of a step.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

func (s Status) String() string {
	return string(s)
}

// Step is a single manual checklist item.
type Step struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	ExpectedResult  string `json:"expected_result"`
	Evidence        string `json:"evidence,omitempty"`
	AnchorReference string `json:"anchor_reference,omitempty"`
	Status          Status `json:"status"`
}

// IsDone reports whether the step has been completed.
func (s Step) IsDone() bool {
	return s.Status == StatusDone
}

// Validate ensures the step satisfies the model's field rules.
func (s Step) Validate() error {
	if err := ValidateStepID(s.ID); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return newValidationError("unknown step status", map[string]interface{}{
			"step_id": s.ID,
			"status":  string(s.Status),
		})
	}
	return nil
}

// ValidateStepID checks that id is a usable step identifier such as "S04",
// "ST-02" or "RC-L-03".
func ValidateStepID(id string) error {
	if id == "" {
		return newValidationError("step id is required", nil)
	}
	if !stepIDPattern.MatchString(id) {
		return newValidationError("step id must match "+stepIDPattern.String(), map[string]interface{}{"step_id": id})
	}
	return nil
}

package config

// Definition is the YAML document used to bootstrap a runbook file.
type Definition struct {
	Version  string      `yaml:"version" validate:"required,schema_version"`
	Title    string      `yaml:"title" validate:"required,min=1,max=200"`
	Steps    []StepDef   `yaml:"steps" validate:"omitempty,dive"`
	Branches []BranchDef `yaml:"branches,omitempty" validate:"omitempty,dive"`
}

// StepDef declares one runbook step.
type StepDef struct {
	ID             string `yaml:"id" validate:"required,step_id"`
	Description    string `yaml:"description" validate:"required"`
	ExpectedResult string `yaml:"expected_result" validate:"required"`
	Evidence       string `yaml:"evidence,omitempty"`
	Anchor         string `yaml:"anchor,omitempty" validate:"omitempty,anchor"`
	Done           bool   `yaml:"done,omitempty"`
}

// BranchDef declares a troubleshooting branch opened against a step.
type BranchDef struct {
	Step         string   `yaml:"step" validate:"required,step_id"`
	ExitCriteria []string `yaml:"exit_criteria" validate:"required,min=1,dive,required"`
}

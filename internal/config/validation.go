package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

// ValidateDefinition performs structural and cross-field validation on a definition.
func ValidateDefinition(def *Definition) error {
	if def == nil {
		return rberrors.NewValidationError("definition", "definition is nil", nil)
	}

	if err := validatorInstance().Struct(def); err != nil {
		return convertValidationError(err)
	}

	stepIndex := make(map[string]int, len(def.Steps))
	for i, step := range def.Steps {
		if _, exists := stepIndex[step.ID]; exists {
			return rberrors.NewValidationError(fieldForStep(i, "id"), fmt.Sprintf("duplicate step id %q", step.ID), nil)
		}
		stepIndex[step.ID] = i
	}

	for i, branch := range def.Branches {
		if _, ok := stepIndex[branch.Step]; !ok {
			return rberrors.NewValidationError(fmt.Sprintf("branches[%d].step", i), fmt.Sprintf("references unknown step %q", branch.Step), nil)
		}
		for j, criterion := range branch.ExitCriteria {
			if strings.TrimSpace(criterion) == "" {
				return rberrors.NewValidationError(fmt.Sprintf("branches[%d].exit_criteria[%d]", i, j), "exit criterion cannot be blank", nil)
			}
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return rberrors.NewValidationError(field, msg, err)
	}

	return rberrors.NewValidationError("definition", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForStep(index int, field string) string {
	return fmt.Sprintf("steps[%d].%s", index, field)
}

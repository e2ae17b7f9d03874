package config

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	schemaVersionPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`)
	stepIDPattern        = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("schema_version", func(fl validator.FieldLevel) bool {
			return schemaVersionPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("step_id", func(fl validator.FieldLevel) bool {
			return stepIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("anchor", func(fl validator.FieldLevel) bool {
			return isValidAnchor(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// isValidAnchor accepts URLs, relative paths and bare fragments that fit on
// one line.
func isValidAnchor(anchor string) bool {
	if strings.TrimSpace(anchor) == "" {
		return false
	}
	for _, r := range anchor {
		if unicode.IsControl(r) {
			return false
		}
	}
	_, err := url.Parse(anchor)
	return err == nil
}

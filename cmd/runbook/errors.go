package main

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// suggestionFor picks a hint matching the kind of failure.
func suggestionFor(err error) string {
	var parseErr *rberrors.ParseError
	var storageErr *rberrors.StorageError
	switch {
	case errors.Is(err, runbook.ErrDuplicateID):
		return "Step ids are never reused. Pick a new id such as the next number in sequence."
	case errors.Is(err, runbook.ErrNotFound):
		return "Run 'runbook show <file>' to list existing step ids and branch labels."
	case errors.Is(err, runbook.ErrState):
		return "Mark the remaining exit criteria with 'runbook branch meet' before closing."
	case errors.Is(err, runbook.ErrValidation):
		return "Step ids start with a letter or digit and may contain letters, digits, '.', '_' and '-'."
	case errors.As(err, &parseErr):
		return "Fix the Markdown table at the reported line, or run 'runbook fmt' on a clean copy."
	case errors.As(err, &storageErr):
		return "Check that the file exists and that you have permission to write to it."
	default:
		return "Re-run with --verbose for more detail."
	}
}

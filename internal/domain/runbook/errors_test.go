package runbook

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := &DomainError{Code: ErrCodeValidation, Message: "invalid"}
	want := "VALIDATION_ERROR: invalid"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}

	wrapped := &DomainError{Code: ErrCodeState, Message: "failure", Cause: err}
	wantWrapped := "INVALID_STATE: failure: VALIDATION_ERROR: invalid"
	if wrapped.Error() != wantWrapped {
		t.Fatalf("expected %q, got %q", wantWrapped, wrapped.Error())
	}
}

func TestDomainError_IsMatchesCode(t *testing.T) {
	err := newNotFoundError("step", "S01")

	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected sentinel match on code")
	}
	if errors.Is(err, ErrDuplicateID) {
		t.Fatal("different codes must not match")
	}
	if errors.Is(err, &DomainError{Code: ErrCodeNotFound, Message: "branch not found"}) {
		t.Fatal("explicit message must match exactly")
	}
	if errors.Is(err, fmt.Errorf("other")) {
		t.Fatal("expected non-domain errors to return false")
	}

	wrapped := fmt.Errorf("loading: %w", err)
	if !IsNotFound(wrapped) {
		t.Fatal("expected match through fmt wrapping")
	}
}

func TestDomainError_WithContext(t *testing.T) {
	err := newDuplicateError("S01")
	updated := err.WithContext(map[string]interface{}{"path": "runbook.md"})

	if updated.Context["id"] != "S01" || updated.Context["path"] != "runbook.md" {
		t.Fatalf("context merge failed: %+v", updated.Context)
	}
	if updated == err {
		t.Fatal("WithContext should return a new instance")
	}
}

func TestDomainError_NilReceiver(t *testing.T) {
	var err *DomainError
	if got := err.Error(); got != "<nil>" {
		t.Fatalf("expected <nil> string, got %q", got)
	}
	if err.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil receiver")
	}
	if err.WithContext(map[string]interface{}{"key": "value"}) != nil {
		t.Fatal("expected nil WithContext result for nil receiver")
	}
}

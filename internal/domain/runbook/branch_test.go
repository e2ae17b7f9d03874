package runbook

import (
	"errors"
	"testing"
)

func TestOpenBranchAllocatesLabels(t *testing.T) {
	rb := newSeeded(t, "S04", "S05")

	a, err := rb.OpenBranch("S04", "kernel restarts cleanly")
	if err != nil {
		t.Fatalf("OpenBranch: %v", err)
	}
	b, err := rb.OpenBranch("S04", "import works", "tests pass")
	if err != nil {
		t.Fatalf("OpenBranch: %v", err)
	}
	c, err := rb.OpenBranch("S05", "remote reachable")
	if err != nil {
		t.Fatalf("OpenBranch: %v", err)
	}

	if a.Label != "S04-a" || b.Label != "S04-b" || c.Label != "S05-a" {
		t.Fatalf("unexpected labels %s %s %s", a.Label, b.Label, c.Label)
	}
	if a.Status != BranchOpen || a.AnchorStepID != "S04" {
		t.Fatalf("unexpected branch %+v", a)
	}
	if got := len(rb.BranchesFor("S04")); got != 2 {
		t.Fatalf("BranchesFor(S04) = %d", got)
	}
	if got := len(rb.Branches()); got != 3 {
		t.Fatalf("Branches() = %d", got)
	}
}

func TestOpenBranchErrors(t *testing.T) {
	rb := newSeeded(t, "S01")

	if _, err := rb.OpenBranch("S99", "x"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := rb.OpenBranch("S01"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := rb.OpenBranch("S01", "ok", "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank criterion, got %v", err)
	}
	if len(rb.Branches()) != 0 {
		t.Fatal("failed opens must not add branches")
	}
}

func TestOpenBranchExhaustsLetters(t *testing.T) {
	rb := newSeeded(t, "S01")
	for i := 0; i < 26; i++ {
		if _, err := rb.OpenBranch("S01", "c"); err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
	}
	if _, err := rb.OpenBranch("S01", "c"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
}

func TestCloseBranchRequiresAllCriteria(t *testing.T) {
	rb := newSeeded(t, "S04")
	branch, err := rb.OpenBranch("S04", "first", "second")
	if err != nil {
		t.Fatal(err)
	}

	if err := rb.CloseBranch(branch.Label); !errors.Is(err, ErrState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err := rb.MeetCriterion(branch.Label, 0); err != nil {
		t.Fatal(err)
	}
	if err := rb.CloseBranch(branch.Label); !errors.Is(err, ErrState) {
		t.Fatalf("expected state error with one unmet criterion, got %v", err)
	}
	if err := rb.MeetCriterion(branch.Label, 1); err != nil {
		t.Fatal(err)
	}
	if err := rb.CloseBranch(branch.Label); err != nil {
		t.Fatalf("CloseBranch: %v", err)
	}
	if err := rb.CloseBranch(branch.Label); err != nil {
		t.Fatalf("second CloseBranch should be a no-op, got %v", err)
	}

	got, err := rb.Branch(branch.Label)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsClosed() || !got.Satisfied() {
		t.Fatalf("unexpected branch %+v", got)
	}

	step, _ := rb.Step("S04")
	if step.Status != StatusPending {
		t.Fatal("closing a branch must not complete its step")
	}
}

func TestMeetCriterionErrors(t *testing.T) {
	rb := newSeeded(t, "S01")
	branch, _ := rb.OpenBranch("S01", "only")

	if err := rb.MeetCriterion("S01-z", 0); !IsNotFound(err) {
		t.Fatalf("expected not found branch, got %v", err)
	}
	if err := rb.MeetCriterion(branch.Label, 1); !IsNotFound(err) {
		t.Fatalf("expected not found criterion, got %v", err)
	}
	if err := rb.MeetCriterion(branch.Label, -1); !IsNotFound(err) {
		t.Fatalf("expected not found criterion, got %v", err)
	}
}

func TestBranchCopiesAreIsolated(t *testing.T) {
	rb := newSeeded(t, "S01")
	branch, _ := rb.OpenBranch("S01", "only")
	branch.ExitCriteria[0].Met = true

	stored, _ := rb.Branch(branch.Label)
	if stored.ExitCriteria[0].Met {
		t.Fatal("returned branch shares criteria with the runbook")
	}
}

func TestRestoreBranch(t *testing.T) {
	var rb Runbook

	err := rb.RestoreBranch(TroubleshootingBranch{
		Label:        "S04-b",
		ExitCriteria: []Criterion{{Description: "ok", Met: true}},
		Status:       BranchClosed,
	})
	if err != nil {
		t.Fatalf("RestoreBranch: %v", err)
	}
	restored, _ := rb.Branch("S04-b")
	if restored.AnchorStepID != "S04" {
		t.Fatalf("anchor not derived from label: %+v", restored)
	}

	if err := rb.RestoreStep(Step{ID: "S04"}); err != nil {
		t.Fatal(err)
	}
	next, err := rb.OpenBranch("S04", "again")
	if err != nil {
		t.Fatal(err)
	}
	if next.Label != "S04-c" {
		t.Fatalf("expected label after highest letter, got %s", next.Label)
	}

	cases := []TroubleshootingBranch{
		{Label: "S04-b", ExitCriteria: []Criterion{{Description: "dup"}}},
		{Label: "S04", ExitCriteria: []Criterion{{Description: "x"}}},
		{Label: "S05-a", AnchorStepID: "S04", ExitCriteria: []Criterion{{Description: "x"}}},
		{Label: "S05-a"},
		{Label: "S05-a", Status: BranchClosed, ExitCriteria: []Criterion{{Description: "x"}}},
		{Label: "S05-a", Status: "stale", ExitCriteria: []Criterion{{Description: "x"}}},
	}
	for _, c := range cases {
		if err := rb.RestoreBranch(c); err == nil {
			t.Fatalf("expected error restoring %+v", c)
		}
	}
}

func TestParseBranchLabel(t *testing.T) {
	stepID, n, err := ParseBranchLabel("RC-L-03-c")
	if err != nil {
		t.Fatal(err)
	}
	if stepID != "RC-L-03" || n != 2 {
		t.Fatalf("got %s %d", stepID, n)
	}
	if BranchLabel(stepID, n) != "RC-L-03-c" {
		t.Fatal("BranchLabel does not invert ParseBranchLabel")
	}
	for _, bad := range []string{"", "S04", "S04-", "S04-A", "S04-ab", "-a"} {
		if _, _, err := ParseBranchLabel(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

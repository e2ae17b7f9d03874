package runbook

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func ids(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func newSeeded(t *testing.T, stepIDs ...string) *Runbook {
	t.Helper()
	rb := New("seeded")
	for _, id := range stepIDs {
		if err := rb.AddStep(id, "describe "+id, "expect "+id); err != nil {
			t.Fatalf("AddStep(%s): %v", id, err)
		}
	}
	return rb
}

func TestAddStepAndListPending(t *testing.T) {
	rb := newSeeded(t, "S01", "S02", "S03")

	got := ids(slices.Collect(rb.ListPending()))
	want := []string{"S01", "S02", "S03"}
	if !slices.Equal(got, want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}

	step, err := rb.Step("S02")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if step.Status != StatusPending || step.Description != "describe S02" || step.ExpectedResult != "expect S02" {
		t.Fatalf("unexpected step %+v", step)
	}
}

func TestMarkDoneExample(t *testing.T) {
	rb := newSeeded(t, "S01", "S02", "S03")

	if err := rb.MarkDone("S02"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	if got := ids(slices.Collect(rb.ListPending())); !slices.Equal(got, []string{"S01", "S03"}) {
		t.Fatalf("pending = %v", got)
	}
	if got := ids(slices.Collect(rb.Done())); !slices.Equal(got, []string{"S02"}) {
		t.Fatalf("done = %v", got)
	}
}

func TestPendingIsExactlyNeverMarked(t *testing.T) {
	all := []string{"S01", "ST-02", "RC-L-03", "S04", "S05", "S06"}
	tests := []struct {
		name   string
		marked []string
	}{
		{"none", nil},
		{"all", all},
		{"first", []string{"S01"}},
		{"last", []string{"S06"}},
		{"interleaved", []string{"ST-02", "S05", "S06"}},
		{"repeated", []string{"S04", "S04", "RC-L-03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := newSeeded(t, all...)
			for _, id := range tt.marked {
				if err := rb.MarkDone(id); err != nil {
					t.Fatalf("MarkDone(%s): %v", id, err)
				}
			}
			assertPendingIsUnmarked(t, rb, all, tt.marked)
		})
	}
}

func TestPendingIsExactlyNeverMarkedRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(20, 26))
	for round := 0; round < 50; round++ {
		n := rng.IntN(12)
		all := make([]string, n)
		for i := range all {
			all[i] = fmt.Sprintf("R%02d", i)
		}
		rb := newSeeded(t, all...)

		var marked []string
		for _, id := range all {
			if rng.IntN(2) == 0 {
				marked = append(marked, id)
			}
		}
		rng.Shuffle(len(marked), func(i, j int) { marked[i], marked[j] = marked[j], marked[i] })
		for _, id := range marked {
			if err := rb.MarkDone(id); err != nil {
				t.Fatalf("round %d: MarkDone(%s): %v", round, id, err)
			}
		}
		assertPendingIsUnmarked(t, rb, all, marked)
	}
}

func assertPendingIsUnmarked(t *testing.T, rb *Runbook, all, marked []string) {
	t.Helper()
	done := make(map[string]bool, len(marked))
	for _, id := range marked {
		done[id] = true
	}
	var want []string
	for _, id := range all {
		if !done[id] {
			want = append(want, id)
		}
	}
	if got := ids(slices.Collect(rb.ListPending())); !slices.Equal(got, want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
	if p := rb.Progress(); p.Done != len(done) || p.Total != len(all) || p.Pending() != len(want) {
		t.Fatalf("unexpected progress %+v", p)
	}
}

func TestAddStepDuplicateLeavesRunbookUnchanged(t *testing.T) {
	rb := newSeeded(t, "S01", "S02")
	before := rb.Steps()

	err := rb.AddStep("S01", "other", "other")
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if !IsDuplicate(err) {
		t.Fatal("IsDuplicate should report true")
	}
	if after := rb.Steps(); !slices.Equal(before, after) {
		t.Fatalf("runbook changed: %v -> %v", before, after)
	}
}

func TestMarkDoneUnknownLeavesRunbookUnchanged(t *testing.T) {
	rb := newSeeded(t, "S01")
	before := rb.Steps()

	err := rb.MarkDone("S99")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if after := rb.Steps(); !slices.Equal(before, after) {
		t.Fatalf("runbook changed: %v -> %v", before, after)
	}
}

func TestMarkDoneIdempotent(t *testing.T) {
	once := newSeeded(t, "S01", "S02")
	twice := newSeeded(t, "S01", "S02")

	if err := once.MarkDone("S01"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := twice.MarkDone("S01"); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(once.Steps(), twice.Steps()) {
		t.Fatalf("states differ: %v vs %v", once.Steps(), twice.Steps())
	}
}

func TestAttachAnchorKeepsStatus(t *testing.T) {
	rb := newSeeded(t, "S01", "S02")
	if err := rb.MarkDone("S02"); err != nil {
		t.Fatal(err)
	}

	if err := rb.AttachAnchor("S01", "https://chat.example/c/1#S01"); err != nil {
		t.Fatal(err)
	}
	if err := rb.AttachAnchor("S02", "https://chat.example/c/1#S02"); err != nil {
		t.Fatal(err)
	}
	if err := rb.AttachAnchor("S02", "https://chat.example/c/2#S02"); err != nil {
		t.Fatal(err)
	}

	s1, _ := rb.Step("S01")
	s2, _ := rb.Step("S02")
	if s1.Status != StatusPending || s2.Status != StatusDone {
		t.Fatalf("anchor changed status: %v %v", s1.Status, s2.Status)
	}
	if s2.AnchorReference != "https://chat.example/c/2#S02" {
		t.Fatalf("anchor not overwritten: %q", s2.AnchorReference)
	}

	if err := rb.AttachAnchor("nope", "x"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordEvidence(t *testing.T) {
	rb := newSeeded(t, "S01")
	if err := rb.RecordEvidence("S01", "pip list shows pandas"); err != nil {
		t.Fatal(err)
	}
	s, _ := rb.Step("S01")
	if s.Evidence != "pip list shows pandas" || s.Status != StatusPending {
		t.Fatalf("unexpected step %+v", s)
	}
	if err := rb.RecordEvidence("S09", "x"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPendingIsRestartableAndLazy(t *testing.T) {
	rb := newSeeded(t, "S01", "S02", "S03")
	seq := rb.ListPending()

	first := ids(slices.Collect(seq))
	second := ids(slices.Collect(seq))
	if !slices.Equal(first, second) {
		t.Fatalf("sequence not restartable: %v vs %v", first, second)
	}

	if err := rb.MarkDone("S01"); err != nil {
		t.Fatal(err)
	}
	if got := ids(slices.Collect(seq)); !slices.Equal(got, []string{"S02", "S03"}) {
		t.Fatalf("sequence should reflect current state, got %v", got)
	}

	var seen []string
	for step := range seq {
		seen = append(seen, step.ID)
		break
	}
	if !slices.Equal(seen, []string{"S02"}) {
		t.Fatalf("early break yielded %v", seen)
	}
}

func TestAddStepRejectsBadIDs(t *testing.T) {
	rb := New("ids")
	tests := []struct {
		id   string
		code ErrorCode
	}{
		{"", ErrCodeValidation},
		{"has space", ErrCodeValidation},
		{"-leading", ErrCodeValidation},
		{"S|01", ErrCodeValidation},
	}
	for _, tt := range tests {
		err := rb.AddStep(tt.id, "d", "e")
		var domainErr *DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != tt.code {
			t.Fatalf("AddStep(%q) error = %v, want code %s", tt.id, err, tt.code)
		}
	}
	if rb.Len() != 0 {
		t.Fatalf("expected no steps, got %d", rb.Len())
	}
}

func TestRestoreStepKeepsStatus(t *testing.T) {
	var rb Runbook
	if err := rb.RestoreStep(Step{ID: "S01", Status: StatusDone, AnchorReference: "ref"}); err != nil {
		t.Fatal(err)
	}
	if err := rb.RestoreStep(Step{ID: "S02"}); err != nil {
		t.Fatal(err)
	}
	if err := rb.RestoreStep(Step{ID: "S03", Status: "skipped"}); err == nil {
		t.Fatal("expected error for unknown status")
	}

	if got := ids(slices.Collect(rb.ListPending())); !slices.Equal(got, []string{"S02"}) {
		t.Fatalf("pending = %v", got)
	}
	if !rb.Has("S01") || rb.Has("S03") {
		t.Fatal("Has reported wrong membership")
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	rb := newSeeded(t, "S01")
	steps := rb.Steps()
	steps[0].Status = StatusDone

	s, _ := rb.Step("S01")
	if s.Status != StatusPending {
		t.Fatal("mutating Steps() result leaked into runbook")
	}
}

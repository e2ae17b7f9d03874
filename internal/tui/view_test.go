package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

func TestViewRendersChecklist(t *testing.T) {
	rb := sampleRunbook(t)
	require.NoError(t, rb.AttachAnchor("S01", "https://chat.example/c/1#S01"))
	require.NoError(t, rb.RecordEvidence("S01", "ls .venv ok"))

	view := NewModel(context.Background(), nil, "book.md", rb).View()
	require.Contains(t, view, "Local Jupyter workflow")
	require.Contains(t, view, "1/3")
	require.Contains(t, view, "[x]")
	require.Contains(t, view, "[ ]")
	require.Contains(t, view, "Install jupyter")
	require.Contains(t, view, "expect: venv exists")
	require.Contains(t, view, "evidence: ls .venv ok")
	require.Contains(t, view, "anchor: https://chat.example/c/1#S01")
	require.Contains(t, view, "quit")
}

func TestViewShowsBranchesOfSelectedStep(t *testing.T) {
	rb := sampleRunbook(t)
	_, err := rb.OpenBranch("S01", "python resolves to venv")
	require.NoError(t, err)

	view := NewModel(context.Background(), nil, "book.md", rb).View()
	require.Contains(t, view, "Troubleshooting")
	require.Contains(t, view, "S01-a (open, 0/1 criteria met)")
}

func TestViewEmptyStates(t *testing.T) {
	m := NewModel(context.Background(), nil, "book.md", runbook.New(""))
	require.Contains(t, m.View(), "Runbook")
	require.Contains(t, m.View(), "no steps yet")

	rb := runbook.New("Done")
	require.NoError(t, rb.AddStep("S01", "a", "b"))
	require.NoError(t, rb.MarkDone("S01"))
	m = NewModel(context.Background(), nil, "book.md", rb)
	m.pendingOnly = true
	require.Contains(t, m.View(), "all steps done")
}

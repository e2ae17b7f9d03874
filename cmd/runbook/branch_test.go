package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

func TestBranchLifecycle(t *testing.T) {
	home := setupHome(t)
	path := newRunbookFile(t, home)

	out := mustExecute(t, "branch", "open", path, "S03", "-c", "port 8888 free", "--criterion", "kernel starts")
	require.Contains(t, out, "✓ Opened S03-a on S03")
	require.Contains(t, out, "2. kernel starts")

	res := executeCommand("branch", "close", path, "S03-a")
	require.Error(t, res.err)
	require.Contains(t, res.err.Error(), "Failed to close branch")
	require.Contains(t, res.err.Error(), "branch meet")

	out = mustExecute(t, "branch", "meet", path, "S03-a", "1")
	require.Contains(t, out, "S03-a criterion 1 met (1 remaining)")

	out = mustExecute(t, "branch", "list", path)
	require.Contains(t, out, "[open] S03-a on S03")
	require.Contains(t, out, "1. [x] port 8888 free")
	require.Contains(t, out, "2. [ ] kernel starts")

	out = mustExecute(t, "branch", "meet", path, "S03-a", "2")
	require.Contains(t, out, "All exit criteria hold")

	require.Contains(t, mustExecute(t, "branch", "close", path, "S03-a"), "✓ Closed S03-a")

	content := readFile(t, path)
	require.Contains(t, content, "## Troubleshooting")
	require.Contains(t, content, "| Branch | Step | Status | Exit Criterion | Met |")
	require.Contains(t, content, "| **S03-a** | S03 | closed | port 8888 free | [x] |")

	out = mustExecute(t, "branch", "open", path, "S03", "-c", "logs clean")
	require.Contains(t, out, "S03-b")

	var branches []runbook.TroubleshootingBranch
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "branch", "list", path, "--json")), &branches))
	require.Len(t, branches, 2)
	require.Equal(t, runbook.BranchClosed, branches[0].Status)
	require.Equal(t, runbook.BranchOpen, branches[1].Status)
}

func TestBranchOpenErrors(t *testing.T) {
	home := setupHome(t)
	path := newRunbookFile(t, home)

	res := executeCommand("branch", "open", path, "S03")
	require.Error(t, res.err)

	res = executeCommand("branch", "open", path, "S42", "-c", "x")
	require.Error(t, res.err)
	require.Contains(t, res.err.Error(), "not found")

	res = executeCommand("branch", "meet", path, "S03-a", "0")
	require.Error(t, res.err)
	require.Contains(t, res.err.Error(), "positive integer")

	require.Contains(t, mustExecute(t, "branch", "list", path), "No troubleshooting branches.")
}

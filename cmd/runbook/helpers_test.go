package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func executeCommand(args ...string) cliResult {
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	res := executeCommand(args...)
	require.NoError(t, res.err, "stderr: %s", res.stderr)
	return res.stdout
}

// setupHome isolates settings, registry and journal inside a temp HOME.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RUNBOOK_STATE_DIR", filepath.Join(home, ".runbook"))
	t.Setenv("RUNBOOK_LOG_LEVEL", "warn")
	return home
}

func newRunbookFile(t *testing.T, home string) string {
	t.Helper()
	path := filepath.Join(home, "work", "jupyter.md")
	mustExecute(t, "init", path, "--title", "Local Jupyter workflow")
	mustExecute(t, "add", path, "S01", "Create venv", "venv exists")
	mustExecute(t, "add", path, "S02", "Install jupyter", "jupyter --version prints")
	mustExecute(t, "add", path, "S03", "Start kernel", "kernel idle")
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

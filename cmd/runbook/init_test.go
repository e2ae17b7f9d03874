package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const definitionYAML = `version: "1.0"
title: Local Jupyter workflow
steps:
  - id: S01
    description: Create virtualenv
    expected_result: .venv exists
    done: true
  - id: ST-02
    description: Install requirements
    expected_result: pip exits 0
    anchor: https://chat.example/c/42#ST-02
branches:
  - step: ST-02
    exit_criteria:
      - pip resolves
`

func TestInitFromDefinition(t *testing.T) {
	home := setupHome(t)
	defPath := filepath.Join(home, "def.yaml")
	writeFile(t, defPath, definitionYAML)
	path := filepath.Join(home, "work", "jupyter.md")

	out := mustExecute(t, "init", path, "--from", defPath)
	require.Contains(t, out, `Created runbook "Local Jupyter workflow"`)
	require.Contains(t, out, "(2 steps)")

	content := readFile(t, path)
	require.Contains(t, content, "| 1 | **S01** | Create virtualenv | .venv exists |  |  | [x] |")
	require.Contains(t, content, "| 2 | **ST-02** | Install requirements | pip exits 0 |  | [link](https://chat.example/c/42#ST-02) | [ ] |")
	require.Contains(t, content, "| **ST-02-a** | ST-02 | open | pip resolves | [ ] |")
}

func TestInitTitleOverridesDefinition(t *testing.T) {
	home := setupHome(t)
	defPath := filepath.Join(home, "def.yaml")
	writeFile(t, defPath, definitionYAML)
	path := filepath.Join(home, "work", "other.md")

	mustExecute(t, "init", path, "--from", defPath, "--title", "Override")
	require.Contains(t, readFile(t, path), "# Override\n")
}

func TestInitRejectsInvalidDefinition(t *testing.T) {
	home := setupHome(t)
	defPath := filepath.Join(home, "def.yaml")
	writeFile(t, defPath, "version: \"1.0\"\ntitle: x\nsteps:\n  - id: S01\n    description: a\n")
	path := filepath.Join(home, "work", "bad.md")

	res := executeCommand("init", path, "--from", defPath)
	require.Error(t, res.err)
	require.Contains(t, res.err.Error(), "reading definition")
	require.NoFileExists(t, path)
}

func TestInitDerivesTitleFromFileName(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "work", "db-cutover.md")

	mustExecute(t, "init", path)
	require.Contains(t, readFile(t, path), "# db-cutover\n")
}

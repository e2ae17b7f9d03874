package config

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

func TestDefinitionBuild(t *testing.T) {
	t.Parallel()

	def, err := ParseDefinition(filepath.Join("testdata", "jupyter.yaml"))
	require.NoError(t, err)

	rb, err := def.Build()
	require.NoError(t, err)

	require.Equal(t, "Local Jupyter workflow", rb.Title)
	require.Equal(t, 3, rb.Len())

	s1, err := rb.Step("S01")
	require.NoError(t, err)
	require.Equal(t, runbook.StatusDone, s1.Status)
	require.Equal(t, "ls .venv shows bin/", s1.Evidence)

	s2, err := rb.Step("ST-02")
	require.NoError(t, err)
	require.Equal(t, runbook.StatusPending, s2.Status)
	require.Equal(t, "https://chat.example/c/42#ST-02", s2.AnchorReference)

	var pending []string
	for step := range rb.ListPending() {
		pending = append(pending, step.ID)
	}
	require.True(t, slices.Equal([]string{"ST-02", "RC-L-03"}, pending))

	branches := rb.Branches()
	require.Len(t, branches, 1)
	require.Equal(t, "RC-L-03-a", branches[0].Label)
	require.Len(t, branches[0].ExitCriteria, 2)
}

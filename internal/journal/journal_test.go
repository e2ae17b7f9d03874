package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Record(ctx, Entry{RunbookPath: "/w/a.md", Kind: KindStepAdded, Subject: "S01", Detail: "Create venv"}))
	require.NoError(t, j.Record(ctx, Entry{RunbookPath: "/w/b.md", Kind: KindStepAdded, Subject: "X01"}))
	require.NoError(t, j.Record(ctx, Entry{RunbookPath: "/w/a.md", Kind: KindStepDone, Subject: "S01", CorrelationID: "corr-1"}))

	entries, err := j.List(ctx, "/w/a.md", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, KindStepAdded, entries[0].Kind)
	assert.Equal(t, "Create venv", entries[0].Detail)
	assert.NotEmpty(t, entries[0].ID)
	assert.True(t, fixed.Equal(entries[0].RecordedAt))

	assert.Equal(t, KindStepDone, entries[1].Kind)
	assert.Equal(t, "corr-1", entries[1].CorrelationID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestListLimitKeepsMostRecentOldestFirst(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	for _, id := range []string{"S01", "S02", "S03", "S04"} {
		require.NoError(t, j.Record(ctx, Entry{RunbookPath: "/w/a.md", Kind: KindStepDone, Subject: id}))
	}

	entries, err := j.List(ctx, "/w/a.md", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "S03", entries[0].Subject)
	assert.Equal(t, "S04", entries[1].Subject)
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	j := openTemp(t)
	assert.Error(t, j.Record(context.Background(), Entry{Kind: KindStepDone}))
	assert.Error(t, j.Record(context.Background(), Entry{RunbookPath: "/w/a.md"}))
}

func TestRecordRejectsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	entry := Entry{ID: "fixed-id", RunbookPath: "/w/a.md", Kind: KindStepDone, Subject: "S01"}
	require.NoError(t, j.Record(ctx, entry))
	assert.Error(t, j.Record(ctx, entry))
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, Entry{RunbookPath: "/w/a.md", Kind: KindRunbookCreated, Subject: "Workflow"}))
	require.NoError(t, j.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx, "/w/a.md", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindRunbookCreated, entries[0].Kind)
	assert.Equal(t, path, reopened.Path())
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), Entry{}))
}

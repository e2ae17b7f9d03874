// Package journal keeps an append-only SQLite history of runbook mutations.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

// Kind names the mutation an entry records.
type Kind string

const (
	KindRunbookCreated   Kind = "runbook_created"
	KindStepAdded        Kind = "step_added"
	KindStepDone         Kind = "step_done"
	KindAnchorAttached   Kind = "anchor_attached"
	KindEvidenceRecorded Kind = "evidence_recorded"
	KindBranchOpened     Kind = "branch_opened"
	KindCriterionMet     Kind = "criterion_met"
	KindBranchClosed     Kind = "branch_closed"
)

// Entry is one journal record.
type Entry struct {
	ID            string    `json:"id"`
	RunbookPath   string    `json:"runbook_path"`
	Kind          Kind      `json:"kind"`
	Subject       string    `json:"subject"`
	Detail        string    `json:"detail,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Recorder accepts journal entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop is a Recorder that drops entries; used when journaling is disabled.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

const schema = `
CREATE TABLE IF NOT EXISTS journal (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	runbook_path TEXT NOT NULL,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	correlation_id TEXT NOT NULL DEFAULT '',
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_runbook ON journal(runbook_path, seq);
`

// Journal is a SQLite-backed Recorder. Entries are never updated or deleted.
type Journal struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, rberrors.NewStorageError("create journal directory", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, rberrors.NewStorageError("open journal", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, rberrors.NewStorageError("initialize journal", path, err)
	}

	return &Journal{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (j *Journal) Path() string {
	return j.path
}

// Record appends entry, assigning an id and timestamp when missing.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.RunbookPath) == "" || entry.Kind == "" {
		return errors.New("journal entry requires runbook path and kind")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = j.now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal (id, runbook_path, kind, subject, detail, correlation_id, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RunbookPath, string(entry.Kind), entry.Subject, entry.Detail, entry.CorrelationID,
		entry.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return rberrors.NewStorageError("append journal entry", j.path, err)
	}
	return nil
}

// List returns the entries of one runbook oldest first. A positive limit keeps
// only the most recent entries.
func (j *Journal) List(ctx context.Context, runbookPath string, limit int) ([]Entry, error) {
	query := `SELECT id, runbook_path, kind, subject, detail, correlation_id, recorded_at FROM journal WHERE runbook_path = ? ORDER BY seq ASC`
	args := []any{runbookPath}
	if limit > 0 {
		query = `SELECT id, runbook_path, kind, subject, detail, correlation_id, recorded_at FROM (
			SELECT * FROM journal WHERE runbook_path = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, rberrors.NewStorageError("query journal", j.path, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			kind     string
			recorded string
		)
		if err := rows.Scan(&e.ID, &e.RunbookPath, &kind, &e.Subject, &e.Detail, &e.CorrelationID, &recorded); err != nil {
			return nil, rberrors.NewStorageError("scan journal", j.path, err)
		}
		e.Kind = Kind(kind)
		ts, err := time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, rberrors.NewStorageError("parse journal timestamp", j.path, fmt.Errorf("entry %s: %w", e.ID, err))
		}
		e.RecordedAt = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, rberrors.NewStorageError("read journal", j.path, err)
	}
	return entries, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

var _ Recorder = (*Journal)(nil)
var _ Recorder = Nop{}

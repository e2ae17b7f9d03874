// Package workspace owns the lifecycle of a runbook file on disk: load,
// apply one mutation, write back atomically and journal what changed.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/journal"
	"github.com/alexisbeaulieu97/runbook/internal/logger"
	"github.com/alexisbeaulieu97/runbook/internal/markdown"
	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

// Change describes one journaled effect of a mutation.
type Change struct {
	Kind    journal.Kind
	Subject string
	Detail  string
}

// Mutation edits a loaded runbook and reports what it changed. Returning an
// error aborts the write; the file on disk is left untouched.
type Mutation func(rb *runbook.Runbook) ([]Change, error)

// Service coordinates runbook files with the journal.
type Service struct {
	recorder journal.Recorder
	log      *logger.Logger
}

// NewService constructs a Service. A nil recorder disables journaling.
func NewService(recorder journal.Recorder, log *logger.Logger) *Service {
	if recorder == nil {
		recorder = journal.Nop{}
	}
	return &Service{recorder: recorder, log: log}
}

// Load reads and decodes the runbook at path.
func (s *Service) Load(path string) (*runbook.Runbook, error) {
	_, rb, err := s.read(path)
	return rb, err
}

func (s *Service) read(path string) ([]byte, *runbook.Runbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, rberrors.NewStorageError("read runbook", path, err)
	}
	rb, err := markdown.Parse(path, data)
	if err != nil {
		return nil, nil, err
	}
	return data, rb, nil
}

// Save encodes rb in canonical form and replaces the file at path
// atomically. Text outside the runbook tables is not kept.
func (s *Service) Save(path string, rb *runbook.Runbook) error {
	return writeAtomic(path, markdown.Format(rb))
}

// Create writes a new runbook file. It refuses to overwrite an existing file.
func (s *Service) Create(ctx context.Context, path string, rb *runbook.Runbook) error {
	if _, err := os.Stat(path); err == nil {
		return rberrors.NewStorageError("create runbook", path, os.ErrExist)
	} else if !errors.Is(err, os.ErrNotExist) {
		return rberrors.NewStorageError("create runbook", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rberrors.NewStorageError("create runbook directory", filepath.Dir(path), err)
	}
	if err := s.Save(path, rb); err != nil {
		return err
	}

	changes := []Change{{Kind: journal.KindRunbookCreated, Subject: rb.Title}}
	for _, step := range rb.Steps() {
		changes = append(changes, Change{Kind: journal.KindStepAdded, Subject: step.ID, Detail: step.Description})
	}
	for _, branch := range rb.Branches() {
		changes = append(changes, Change{Kind: journal.KindBranchOpened, Subject: branch.Label, Detail: branch.AnchorStepID})
	}
	s.record(ctx, path, changes)
	return nil
}

// Mutate loads the runbook at path, applies fn and, when fn reports at least
// one change, rewrites the runbook tables in place. Headings, prose and other
// tables in the file are preserved.
func (s *Service) Mutate(ctx context.Context, path string, fn Mutation) (*runbook.Runbook, error) {
	source, rb, err := s.read(path)
	if err != nil {
		return nil, err
	}

	changes, err := fn(rb)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		s.log.Debug("mutation left runbook unchanged")
		return rb, nil
	}

	out, err := markdown.Splice(path, source, rb)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(path, out); err != nil {
		return nil, err
	}
	s.record(ctx, path, changes)
	return rb, nil
}

// History returns journal entries for path when the recorder supports reading.
func (s *Service) History(ctx context.Context, path string, limit int) ([]journal.Entry, error) {
	j, ok := s.recorder.(*journal.Journal)
	if !ok {
		return nil, errors.New("journal is disabled")
	}
	return j.List(ctx, path, limit)
}

// record appends changes to the journal. The runbook file is already saved at
// this point, so failures are logged rather than returned.
func (s *Service) record(ctx context.Context, path string, changes []Change) {
	correlationID := logger.CorrelationID(ctx)
	for _, c := range changes {
		err := s.recorder.Record(ctx, journal.Entry{
			RunbookPath:   path,
			Kind:          c.Kind,
			Subject:       c.Subject,
			Detail:        c.Detail,
			CorrelationID: correlationID,
		})
		if err != nil {
			s.log.WithFields(map[string]any{"kind": string(c.Kind), "subject": c.Subject}).Error(err, "journal append failed")
		}
	}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return rberrors.NewStorageError("create temporary file", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return rberrors.NewStorageError("write temporary file", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return rberrors.NewStorageError("close temporary file", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return rberrors.NewStorageError("chmod temporary file", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return rberrors.NewStorageError("replace runbook", path, fmt.Errorf("rename: %w", err))
	}
	return nil
}

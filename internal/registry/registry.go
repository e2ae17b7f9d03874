package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

const fileVersion = "1.0"

// Registry manages the persisted index of runbook files.
type Registry struct {
	path    string
	mu      sync.RWMutex
	version string
	entries []Entry
}

// NewRegistry creates a Registry backed by path and loads it if it exists.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		version: fileVersion,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, rberrors.NewStorageError("create registry directory", dir, err)
	}

	if err := r.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		r.entries = []Entry{}
	}

	return r, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the registry from disk
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return rberrors.NewStorageError("parse registry", r.path, err)
	}

	if file.Version != "" {
		r.version = file.Version
	}
	r.entries = file.Runbooks
	if r.entries == nil {
		r.entries = []Entry{}
	}

	return nil
}

// Save writes the registry to disk atomically
func (r *Registry) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := json.MarshalIndent(File{Version: r.version, Runbooks: r.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return rberrors.NewStorageError("write registry", tmpPath, err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return rberrors.NewStorageError("replace registry", r.path, err)
	}

	return nil
}

// List returns a copy of all entries in registration order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

// Get retrieves an entry by id.
func (r *Registry) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}

	return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// FindByPath retrieves the entry registered for an absolute file path.
func (r *Registry) FindByPath(path string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Add registers a new entry. Both id and path must be unused.
func (r *Registry) Add(e Entry) error {
	if err := ValidateID(e.ID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.ID == e.ID {
			return fmt.Errorf("%w: id %s", ErrEntryExists, e.ID)
		}
		if existing.Path == e.Path {
			return fmt.Errorf("%w: %s is registered as %s", ErrEntryExists, e.Path, existing.ID)
		}
	}

	r.entries = append(r.entries, e)
	return nil
}

// Update replaces the entry with the same id, typically to refresh its title.
func (r *Registry) Update(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.entries {
		if existing.ID == e.ID {
			r.entries[i] = e
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrEntryNotFound, e.ID)
}

// Remove unregisters an entry. The runbook file itself is left alone.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

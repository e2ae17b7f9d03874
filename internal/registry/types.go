package registry

import (
	"errors"
	"time"
)

var (
	// ErrEntryNotFound is returned when no entry carries the requested id.
	ErrEntryNotFound = errors.New("runbook not registered")
	// ErrEntryExists is returned when an id or path is already registered.
	ErrEntryExists = errors.New("runbook already registered")
)

// Entry is a runbook file known to the tool.
type Entry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Path         string    `json:"path"`
	RegisteredAt time.Time `json:"registered_at"`
}

// File is the JSON layout of registry.json.
type File struct {
	Version  string  `json:"version"`
	Runbooks []Entry `json:"runbooks"`
}

// Package tui implements the interactive checklist for a single runbook.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	"github.com/alexisbeaulieu97/runbook/internal/tui/components"
	"github.com/alexisbeaulieu97/runbook/internal/workspace"
)

// Store persists mutations made from the checklist.
type Store interface {
	Mutate(ctx context.Context, path string, fn workspace.Mutation) (*runbook.Runbook, error)
}

// ReloadedMsg replaces the displayed runbook, typically after the file
// changed on disk.
type ReloadedMsg struct {
	Runbook *runbook.Runbook
}

// ErrMsg reports a failed load or save.
type ErrMsg struct {
	Err error
}

type stepMarkedMsg struct {
	id      string
	runbook *runbook.Runbook
}

// Model is the Bubble Tea state of the checklist.
type Model struct {
	ctx   context.Context
	store Store
	path  string

	rb          *runbook.Runbook
	cursor      int
	pendingOnly bool

	keys     keyMap
	help     help.Model
	progress components.Progress

	status   string
	err      error
	width    int
	quitting bool
}

// NewModel constructs a checklist over rb, persisting changes to path
// through store.
func NewModel(ctx context.Context, store Store, path string, rb *runbook.Runbook) Model {
	if rb == nil {
		rb = runbook.New("")
	}
	return Model{
		ctx:      ctx,
		store:    store,
		path:     path,
		rb:       rb,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: components.NewProgress(30),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Runbook returns the runbook currently displayed.
func (m Model) Runbook() *runbook.Runbook {
	return m.rb
}

// PendingOnly reports whether done steps are hidden.
func (m Model) PendingOnly() bool {
	return m.pendingOnly
}

// Cursor returns the highlighted row within the visible steps.
func (m Model) Cursor() int {
	return m.cursor
}

// visible returns the steps shown under the current filter.
func (m Model) visible() []runbook.Step {
	if !m.pendingOnly {
		return m.rb.Steps()
	}
	var steps []runbook.Step
	for step := range m.rb.ListPending() {
		steps = append(steps, step)
	}
	return steps
}

func (m Model) selected() (runbook.Step, bool) {
	steps := m.visible()
	if m.cursor < 0 || m.cursor >= len(steps) {
		return runbook.Step{}, false
	}
	return steps[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func markDoneCmd(ctx context.Context, store Store, path, id string) tea.Cmd {
	return func() tea.Msg {
		rb, err := store.Mutate(ctx, path, workspace.MarkDone(id))
		if err != nil {
			return ErrMsg{Err: err}
		}
		return stepMarkedMsg{id: id, runbook: rb}
	}
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case ReloadedMsg:
		if msg.Runbook != nil {
			m.rb = msg.Runbook
			m.clampCursor()
			m.status = "reloaded from disk"
			m.err = nil
		}
		return m, nil

	case stepMarkedMsg:
		m.rb = msg.runbook
		m.clampCursor()
		m.status = fmt.Sprintf("%s marked done", msg.id)
		m.err = nil
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Pending):
		m.pendingOnly = !m.pendingOnly
		m.clampCursor()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Done):
		step, ok := m.selected()
		if !ok {
			return m, nil
		}
		if step.IsDone() {
			m.status = fmt.Sprintf("%s is already done", step.ID)
			return m, nil
		}
		if m.store == nil {
			m.err = fmt.Errorf("runbook is read-only")
			return m, nil
		}
		return m, markDoneCmd(m.ctx, m.store, m.path, step.ID)
	}

	return m, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sidebar provides the chat list component for the TUI.
package sidebar

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// OpenChatMsg signals that the user selected a chat.
type OpenChatMsg struct {
	ChatID string
}

// DeleteChatMsg signals that the user asked to delete a chat.
type DeleteChatMsg struct {
	ChatID string
}

// NewChatMsg signals that the user wants a fresh chat.
type NewChatMsg struct{}

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap defines the key bindings for the sidebar.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Delete key.Binding
	New    key.Binding
}

// DefaultKeyMap returns the default sidebar key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new chat"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat list.
type Model struct {
	store *store.Store
	theme *styles.Theme
	keys  KeyMap

	spinner spinner.Model

	cursor  int
	width   int
	height  int
	focused bool
}

// New creates the sidebar bound to the shared store.
func New(st *store.Store, theme *styles.Theme) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Spinner),
	)
	return Model{
		store:   st,
		theme:   theme,
		keys:    DefaultKeyMap(),
		spinner: sp,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Focus gives the sidebar keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the sidebar has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// SetSize resizes the sidebar.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Sync clamps the cursor after the chat list changed under it.
func (m *Model) Sync() {
	if n := len(m.store.Chats()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SelectedChatID returns the chat under the cursor, or "".
func (m *Model) SelectedChatID() string {
	chats := m.store.Chats()
	if m.cursor < 0 || m.cursor >= len(chats) {
		return ""
	}
	return chats[m.cursor].ID
}

// Update handles navigation and selection keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.store.Chats())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Open):
			if id := m.SelectedChatID(); id != "" {
				return m, func() tea.Msg { return OpenChatMsg{ChatID: id} }
			}
		case key.Matches(msg, m.keys.Delete):
			if id := m.SelectedChatID(); id != "" && !m.store.Deleting() {
				return m, func() tea.Msg { return DeleteChatMsg{ChatID: id} }
			}
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewChatMsg{} }
		}
	}
	return m, nil
}

// now is swapped in tests for deterministic timestamp labels.
var now = time.Now

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// composerHeight is the composer's height in rows, borders excluded.
const composerHeight = 3

// Model is the message thread plus composer.
type Model struct {
	store *store.Store
	theme *styles.Theme
	keys  KeyMap

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	renderer *glamour.TermRenderer
	markdown bool

	width   int
	height  int
	focused bool
}

// New creates the chat view bound to the shared store.
func New(st *store.Store, theme *styles.Theme, markdown bool) Model {
	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.Prompt = "┃ "
	ta.SetHeight(composerHeight)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	// Enter submits; newline moves to alt+enter / ctrl+j.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.BlurredStyle.Prompt = theme.InputPrompt
	ta.BlurredStyle.Placeholder = theme.InputPlaceholder

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	return Model{
		store:    st,
		theme:    theme,
		keys:     DefaultKeyMap(),
		viewport: viewport.New(0, 0),
		textarea: ta,
		spinner:  sp,
		markdown: markdown,
	}
}

// Init starts the cursor blink and spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Focus gives the composer keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.textarea.Focus()
}

// Blur removes keyboard focus from the composer.
func (m *Model) Blur() {
	m.focused = false
	m.textarea.Blur()
}

// Focused reports whether the composer has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// SetSize resizes the thread viewport and composer.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	viewportHeight := height - composerHeight - 4 // header + composer border
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.textarea.SetWidth(width - 2)

	m.renderer = nil // rebuilt on next render at the new wrap width
	m.SyncThread()
}

// Update handles input and animation messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if !m.focused {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return NewBackMsg() }

		case key.Matches(msg, m.keys.Submit):
			// The application model runs the send pipeline; a no-op
			// there (blank draft, send in flight) leaves the view alone.
			return m, func() tea.Msg { return NewSubmitMsg() }

		case key.Matches(msg, m.keys.ScrollUp):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.ScrollDown):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.ViewUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.ViewDown()

		default:
			// Composer is read-only while a send is in flight.
			if m.store.Sending() {
				break
			}
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			m.store.SetDraft(m.textarea.Value())
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// SyncThread rebuilds the viewport from the store. Call after any store
// transition that can change the thread or the draft.
func (m *Model) SyncThread() {
	wasAtBottom := m.viewport.AtBottom()

	m.viewport.SetContent(m.renderThread())

	// Follow the stream; respect a reader who scrolled up.
	if wasAtBottom || m.store.Sending() {
		m.viewport.GotoBottom()
	}

	if m.textarea.Value() != m.store.Draft() {
		m.textarea.SetValue(m.store.Draft())
	}
}

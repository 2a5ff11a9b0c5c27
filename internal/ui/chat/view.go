// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/model"
)

// View renders the thread, a status line, and the composer.
// Pointer receiver so the lazily built markdown renderer is cached.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.textarea.View()))

	return b.String()
}

func (m Model) renderHeader() string {
	title := "New chat"
	if active := m.store.ActiveChat(); active != nil {
		title = active.Title
	}
	return m.theme.Header.Width(m.width).Render(title)
}

func (m Model) renderStatus() string {
	switch {
	case m.store.LoadingMessages():
		return m.theme.Spinner.Render(m.spinner.View()) + " Loading messages...\n"
	case m.store.Sending():
		return m.theme.Spinner.Render(m.spinner.View()) + " Waiting for reply... (reply streams in below)\n"
	default:
		return ""
	}
}

// renderThread renders every message as a labeled bubble.
func (m *Model) renderThread() string {
	messages := m.store.Messages()
	if len(messages) == 0 {
		if m.store.LoadingMessages() {
			return ""
		}
		return m.theme.SidebarEmpty.Render("Type a message below to start the conversation.")
	}

	parts := make([]string, 0, len(messages))
	for i := range messages {
		parts = append(parts, m.renderMessage(&messages[i]))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	label := m.theme.SenderLabel.Render(msg.Sender.DisplayName())

	text := msg.DisplayText()
	if msg.Pending() && text == "" {
		text = m.spinner.View()
	} else if msg.Sender == model.SenderModel && !msg.Pending() {
		text = m.renderMarkdown(text)
	}

	bubbleWidth := m.width - 8
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	var bubble string
	if msg.Sender == model.SenderUser {
		bubble = m.theme.UserBubble.MaxWidth(bubbleWidth).Render(text)
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	}
	bubble = m.theme.ModelBubble.MaxWidth(bubbleWidth).Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderMarkdown renders finalized model replies through glamour.
// Streaming text stays raw: re-rendering partial markdown flickers.
func (m *Model) renderMarkdown(text string) string {
	if !m.markdown {
		return text
	}
	if m.renderer == nil {
		style := "light"
		if m.theme.IsDark {
			style = "dark"
		}
		wrap := m.width - 12
		if wrap < 20 {
			wrap = 20
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return text
		}
		m.renderer = renderer
	}

	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

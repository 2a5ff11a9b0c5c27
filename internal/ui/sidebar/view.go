// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"strings"

	"github.com/jeranaias/parley-tui/internal/util"
)

// View renders the chat list.
func (m Model) View() string {
	var b strings.Builder

	title := "Chats"
	if m.store.LoadingChats() {
		title += " " + m.spinner.View()
	}
	b.WriteString(m.theme.SidebarTitle.Render(title))
	b.WriteString("\n\n")

	chats := m.store.Chats()
	if len(chats) == 0 && !m.store.LoadingChats() {
		b.WriteString(m.theme.SidebarEmpty.Render("No chats yet.\nPress n to start one."))
		return m.theme.Sidebar.Width(m.width).Height(m.height).Render(b.String())
	}

	// Entry width inside padding and border.
	entryWidth := m.width - 4
	if entryWidth < 8 {
		entryWidth = 8
	}

	for i, chat := range chats {
		label := util.FormatChatTimestamp(chat.Timestamp.Time, now())
		titleLine := util.TruncateWidth(chat.Title, entryWidth)
		metaLine := m.theme.SidebarTimestamp.Render(util.TruncateWidth(label, entryWidth))

		entry := titleLine + "\n" + metaLine
		if i == m.cursor && m.focused {
			b.WriteString(m.theme.SidebarItemSelected.Width(entryWidth).Render(entry))
		} else {
			b.WriteString(m.theme.SidebarItem.Width(entryWidth).Render(entry))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.Width(m.width).Height(m.height).Render(b.String())
}

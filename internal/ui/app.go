// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui composes the sidebar and chat view into the application
// model and owns all network commands. The store is the single source
// of truth; the child views render it and emit intent messages that are
// handled here.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/chat"
	"github.com/jeranaias/parley-tui/internal/ui/sidebar"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// App is the top-level Bubble Tea model.
type App struct {
	cfg    *config.Config
	theme  *styles.Theme
	store  *store.Store
	client *api.Client

	sidebar sidebar.Model
	chat    chat.Model

	// streamCh carries reply chunks from the in-flight send.
	streamCh chan tea.Msg

	width  int
	height int
	ready  bool
}

// NewApp wires the application together from configuration.
func NewApp(cfg *config.Config) *App {
	theme := styles.NewTheme(cfg.UI.Theme == "dark")
	st := store.New()
	client := api.NewClient(
		api.WithBaseURL(cfg.Server.BaseURL),
		api.WithTimeout(cfg.Timeout()),
	)

	a := &App{
		cfg:     cfg,
		theme:   theme,
		store:   st,
		client:  client,
		sidebar: sidebar.New(st, theme),
		chat:    chat.New(st, theme, cfg.UI.Markdown),
	}
	a.sidebar.Focus()
	return a
}

// Init fetches the chat list and starts the child components.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.sidebar.Init(),
		a.chat.Init(),
		a.loadChatsCmd(a.store.BeginLoadChats()),
	)
}

// Update routes messages between the store, the network commands, and
// the child views.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.KeyMsg:
		// Any key dismisses the error line.
		a.store.DismissError()

		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			return a, a.toggleFocus()
		}

	// ------------------------------------------------------------------
	// Sidebar intents
	// ------------------------------------------------------------------

	case sidebar.OpenChatMsg:
		gen := a.store.OpenChat(msg.ChatID)
		a.chat.SyncThread()
		cmds = append(cmds, a.focusChat(), a.loadHistoryCmd(gen, msg.ChatID))
		return a, tea.Batch(cmds...)

	case sidebar.DeleteChatMsg:
		gen := a.store.BeginDelete()
		return a, a.deleteChatCmd(gen, msg.ChatID)

	case sidebar.NewChatMsg:
		a.store.CloseChat()
		a.chat.SyncThread()
		return a, a.focusChat()

	// ------------------------------------------------------------------
	// Chat intents
	// ------------------------------------------------------------------

	case chat.SubmitMsg:
		intent, ok := a.store.BeginSend()
		if !ok {
			return a, nil
		}
		a.chat.SyncThread()
		a.streamCh = make(chan tea.Msg, 64)
		return a, tea.Batch(
			a.startSendCmd(intent, a.streamCh),
			listenStream(a.streamCh),
		)

	case chat.BackMsg:
		a.store.CloseChat()
		a.chat.SyncThread()
		a.sidebar.Sync()
		a.focusSidebar()
		return a, nil

	// ------------------------------------------------------------------
	// Network results
	// ------------------------------------------------------------------

	case chatsLoadedMsg:
		if msg.err != nil {
			a.store.FailLoadChats(msg.gen, msg.err)
		} else {
			a.store.ApplyChats(msg.gen, msg.chats)
		}
		a.sidebar.Sync()
		return a, nil

	case historyLoadedMsg:
		if msg.err != nil {
			a.store.FailLoadMessages(msg.gen, msg.err)
		} else {
			a.store.ApplyMessages(msg.gen, msg.messages)
		}
		a.chat.SyncThread()
		return a, nil

	case streamChunkMsg:
		a.store.AppendChunk(msg.gen, msg.chunk)
		a.chat.SyncThread()
		return a, listenStream(a.streamCh)

	case sendDoneMsg:
		if msg.err != nil {
			a.store.FailSend(msg.gen, msg.err)
			a.chat.SyncThread()
			return a, nil
		}
		a.store.CompleteSend(msg.gen, msg.reply)
		a.chat.SyncThread()
		// The reply moved the chat's recency; refresh the sidebar.
		return a, a.loadChatsCmd(a.store.BeginLoadChats())

	case newChatDoneMsg:
		if msg.err != nil {
			a.store.FailSend(msg.gen, msg.err)
			a.chat.SyncThread()
			return a, nil
		}
		a.store.CompleteSendNewChat(msg.gen, msg.chat)
		a.chat.SyncThread()
		a.sidebar.Sync()
		// The optimistic sidebar entry gets reconciled with server order.
		return a, a.loadChatsCmd(a.store.BeginLoadChats())

	case deleteDoneMsg:
		if msg.err != nil {
			a.store.FailDelete(msg.gen, msg.err)
			a.sidebar.Sync()
			return a, nil
		}
		a.store.CompleteDelete(msg.gen, msg.chatID)
		a.sidebar.Sync()
		a.chat.SyncThread()
		return a, a.loadChatsCmd(a.store.BeginLoadChats())

	case streamClosedMsg:
		return a, nil
	}

	// Everything else (keys, blinks, spinner ticks) goes to the children.
	var cmd tea.Cmd
	a.sidebar, cmd = a.sidebar.Update(msg)
	cmds = append(cmds, cmd)
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the split layout plus the status line.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.sidebar.View(),
		a.chat.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar())
}

// =============================================================================
// LAYOUT AND FOCUS
// =============================================================================

func (a *App) layout() {
	sidebarWidth := a.cfg.UI.SidebarWidth
	if limit := a.width / 3; sidebarWidth > limit {
		sidebarWidth = limit
	}

	contentHeight := a.height - 1 // status bar
	a.sidebar.SetSize(sidebarWidth, contentHeight)
	a.chat.SetSize(a.width-sidebarWidth-1, contentHeight)
}

func (a *App) toggleFocus() tea.Cmd {
	if a.sidebar.Focused() {
		return a.focusChat()
	}
	a.focusSidebar()
	return nil
}

func (a *App) focusChat() tea.Cmd {
	a.sidebar.Blur()
	return a.chat.Focus()
}

func (a *App) focusSidebar() {
	a.chat.Blur()
	a.sidebar.Focus()
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (a *App) renderStatusBar() string {
	if errText := a.store.LastError(); errText != "" {
		return a.theme.ErrorLine.Width(a.width).Render("✗ " + errText + " (any key to dismiss)")
	}

	var hints []string
	if a.sidebar.Focused() {
		hints = append(hints,
			a.hint("↑/↓", "navigate"),
			a.hint("enter", "open"),
			a.hint("n", "new chat"),
			a.hint("d", "delete"),
		)
	} else {
		hints = append(hints,
			a.hint("enter", "send"),
			a.hint("alt+enter", "newline"),
			a.hint("esc", "back"),
		)
	}
	hints = append(hints, a.hint("tab", "switch pane"), a.hint("ctrl+c", "quit"))

	return a.theme.StatusBar.Width(a.width).Render(strings.Join(hints, "  "))
}

func (a *App) hint(keyName, desc string) string {
	return a.theme.ShortcutKey.Render(keyName) + " " + a.theme.ShortcutDesc.Render(desc)
}

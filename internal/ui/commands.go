// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/store"
)

// Network commands. Each command runs in its own goroutine under Bubble
// Tea and reports back with exactly one result message; streaming sends
// additionally feed chunk messages through a channel drained by
// listenStream.

func (a *App) loadChatsCmd(gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
		defer cancel()

		chats, err := a.client.ListChats(ctx)
		return chatsLoadedMsg{gen: gen, chats: chats, err: err}
	}
}

func (a *App) loadHistoryCmd(gen uint64, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
		defer cancel()

		messages, err := a.client.FetchMessages(ctx, chatID)
		return historyLoadedMsg{gen: gen, messages: messages, err: err}
	}
}

func (a *App) deleteChatCmd(gen uint64, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
		defer cancel()

		err := a.client.DeleteChat(ctx, chatID)
		return deleteDoneMsg{gen: gen, chatID: chatID, err: err}
	}
}

// startSendCmd performs the blocking send. Reply chunks go through ch as
// they decode; the final result is the command's own message. The channel
// is closed when the stream ends, which terminates the listen loop.
func (a *App) startSendCmd(intent store.SendIntent, ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)

		// Streaming lifetime is context-bound, not timeout-bound: a long
		// reply is not an error.
		ctx := context.Background()

		if intent.ChatID == "" {
			// Chat creation streams the serialized chat, not reply text;
			// there is nothing to render live.
			chat, err := a.client.CreateChat(ctx, intent.Message, nil)
			return newChatDoneMsg{gen: intent.Gen, chat: chat, err: err}
		}

		reply, err := a.client.AppendMessage(ctx, intent.ChatID, intent.Message, func(chunk string) {
			ch <- streamChunkMsg{gen: intent.Gen, chunk: chunk}
		})
		return sendDoneMsg{gen: intent.Gen, reply: reply, err: err}
	}
}

// listenStream yields the next chunk message, re-armed by the update
// loop after each delivery.
func listenStream(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return msg
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import "github.com/jeranaias/parley-tui/internal/model"

// Result messages delivered by the network commands. Every one carries
// the generation token of the operation that produced it; the store
// drops results whose token has gone stale.

// chatsLoadedMsg delivers a chat list refresh.
type chatsLoadedMsg struct {
	gen   uint64
	chats []model.ChatSummary
	err   error
}

// historyLoadedMsg delivers a chat's message history.
type historyLoadedMsg struct {
	gen      uint64
	messages []model.Message
	err      error
}

// streamChunkMsg delivers one decoded chunk of a streaming reply.
type streamChunkMsg struct {
	gen   uint64
	chunk string
}

// sendDoneMsg finishes a send into an existing chat.
type sendDoneMsg struct {
	gen   uint64
	reply string
	err   error
}

// newChatDoneMsg finishes a send that created a chat.
type newChatDoneMsg struct {
	gen  uint64
	chat *model.FullChat
	err  error
}

// deleteDoneMsg finishes a chat deletion.
type deleteDoneMsg struct {
	gen    uint64
	chatID string
	err    error
}

// streamClosedMsg signals that the chunk channel drained; no-op marker.
type streamClosedMsg struct{}

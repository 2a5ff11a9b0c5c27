// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatSummary is one sidebar entry.
//
// IDs are opaque and assigned by the remote service; the client never
// invents one. Timestamp is the instant of last activity and drives
// recency labels in the sidebar.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp Timestamp `json:"timestamp"`
}

// FullChat is a summary plus the chat's ordered message history.
type FullChat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp Timestamp `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Summary returns the sidebar view of the chat.
func (c *FullChat) Summary() ChatSummary {
	return ChatSummary{
		ID:        c.ID,
		Title:     c.Title,
		Timestamp: c.Timestamp,
	}
}

// LastMessage returns the most recent message, or nil if the chat is empty.
func (c *FullChat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

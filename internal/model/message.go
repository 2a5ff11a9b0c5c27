// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderModel Sender = "model"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderModel:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single chat turn.
//
// The ID is client-side only: the remote service identifies chats, not
// individual messages, but the UI needs a stable handle to find the
// in-progress message during streaming without relying on its position.
type Message struct {
	ID        string    `json:"-"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp Timestamp `json:"timestamp"`

	// Streaming state (never sent on the wire).
	// strings.Builder avoids quadratic allocations while chunks arrive.
	pending    bool
	streamText strings.Builder
}

// NewUserMessage creates a user message stamped with the current instant.
func NewUserMessage(text string) Message {
	return Message{
		ID:        newMessageID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: Now(),
	}
}

// NewPendingModelMessage creates an empty model message whose text will be
// filled in by stream chunks. The message stays pending until Finalize.
func NewPendingModelMessage() Message {
	return Message{
		ID:        newMessageID(),
		Sender:    SenderModel,
		Timestamp: Now(),
		pending:   true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Pending reports whether the message is still receiving streamed text.
func (m *Message) Pending() bool {
	return m.pending
}

// Append adds a chunk of streamed text to a pending message.
// Appending to a finalized message is a no-op: persisted text is immutable.
func (m *Message) Append(chunk string) {
	if m.pending {
		m.streamText.WriteString(chunk)
	}
}

// Finalize freezes a pending message, moving the accumulated buffer into
// Text. Finalizing twice is harmless.
func (m *Message) Finalize() {
	if !m.pending {
		return
	}
	m.Text = m.streamText.String()
	m.streamText.Reset()
	m.pending = false
}

// FinalizeWith freezes a pending message with the given text, superseding
// the accumulated buffer. Used when the caller holds the authoritative
// full text and the buffer may be a prefix of it.
func (m *Message) FinalizeWith(text string) {
	if !m.pending {
		return
	}
	m.Text = text
	m.streamText.Reset()
	m.pending = false
}

// DisplayText returns the text to render, live buffer or final.
func (m *Message) DisplayText() string {
	if m.pending {
		return m.streamText.String()
	}
	return m.Text
}

// Preview returns a truncated single-line preview of the message.
// Rune-based truncation keeps multi-byte characters intact.
func (m *Message) Preview(maxLen int) string {
	text := m.DisplayText()
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newMessageID creates a unique client-side message handle.
func newMessageID() string {
	return "msg_" + uuid.New().String()
}

// Now returns the current instant as a wire timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now()}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the message thread and composer for the TUI.
//
// This file defines the Bubble Tea message types the chat view emits
// toward the application model. All message types follow Bubble Tea
// conventions and are immutable.
package chat

// SubmitMsg signals that the user submitted the composer content.
// The application model decides whether it starts a send.
type SubmitMsg struct{}

// BackMsg signals that the user navigated back (Escape).
type BackMsg struct{}

// NewSubmitMsg creates a SubmitMsg command payload.
func NewSubmitMsg() SubmitMsg { return SubmitMsg{} }

// NewBackMsg creates a BackMsg command payload.
func NewBackMsg() BackMsg { return BackMsg{} }

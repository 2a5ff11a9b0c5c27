// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// The types mirror the remote chat service's wire format: a Message is one
// chat turn, a ChatSummary is a sidebar entry, and a FullChat is a summary
// plus its ordered message history. Insertion order of messages is
// chronological order.
//
// A message being streamed from the service is represented by a pending
// Message: its text is a live buffer appended to as chunks arrive, and it
// becomes immutable once finalized.
package model

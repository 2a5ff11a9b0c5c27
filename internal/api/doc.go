// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the parley chat service.
//
// The service exposes a small REST surface: list chats, fetch a chat's
// messages, create a chat, append a message, delete a chat. Replies to
// create and append arrive as a streamed plain-text body; the client
// decodes chunks incrementally so the UI can render text as it arrives.
//
// Errors fall into three kinds a caller can tell apart:
//   - transport errors (connection refused, timeout): plain wrapped errors
//   - application errors (non-2xx status): *APIError with the status code
//   - decode errors (malformed response body): wrapped json errors
//
// Every operation is a single attempt. Retry policy, if any, belongs to
// the caller.
package api

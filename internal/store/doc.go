// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side chat state and its transitions.
//
// The Store is the single owner of the chat list, the open chat's
// messages, the composer draft, and the in-flight operation flags. All
// methods are synchronous state transitions intended to be called from
// the UI event loop; network IO lives elsewhere and reports back through
// the Apply*/Complete*/Fail* methods.
//
// # Concurrency model
//
// The Store is not safe for concurrent use and does not need to be: the
// event loop serializes every call. Results of asynchronous work carry a
// generation token minted by the matching Begin* method, and a result
// whose token is stale (a newer operation of the same kind has started)
// is discarded without touching state.
//
// # Send pipeline
//
// Sending is optimistic: the user message and an empty pending model
// message are appended immediately, and a snapshot taken beforehand is
// restored wholesale if the request fails. The draft is cleared on
// submit and is not restored on failure.
package store

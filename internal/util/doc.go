// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the parley TUI.
//
// This package contains the small pure helpers used throughout the
// application for timestamp display and string manipulation.
//
// # Key Functions
//
// Timestamps:
//   - FormatChatTimestamp: coarse relative label for sidebar entries
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - TruncateRunes: UTF-8 safe truncation by character count
package util

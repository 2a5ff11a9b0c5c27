// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "time"

// absoluteDateLayout is used once a timestamp falls outside the relative
// label range.
const absoluteDateLayout = "Jan 2, 2006"

// FormatChatTimestamp maps an instant to a coarse recency label for the
// sidebar. Pure: the same (ts, now) pair always yields the same label.
//
// Boundaries are evaluated top-down on elapsed whole days, first match
// wins: 0 Today, 1 Yesterday, 2-7 Last week, 8-30 Last month, 31-365
// Last year, otherwise the absolute date. The difference is taken as an
// absolute value, so a clock-skewed future timestamp still lands in
// "Today" rather than producing a negative bucket.
func FormatChatTimestamp(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff.Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days <= 7:
		return "Last week"
	case days <= 30:
		return "Last month"
	case days <= 365:
		return "Last year"
	default:
		return ts.Format(absoluteDateLayout)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jeranaias/parley-tui/internal/api"
)

// errorText maps an operation failure to the one-line message shown in
// the UI. The wording distinguishes a server that answered with an
// error from one that could not be reached at all.
func errorText(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusNotFound {
			return "That chat no longer exists on the server"
		}
		if apiErr.Body != "" {
			return fmt.Sprintf("Server rejected the request (HTTP %d): %s", apiErr.Status, apiErr.Body)
		}
		return fmt.Sprintf("Server rejected the request (HTTP %d)", apiErr.Status)
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "The chat service took too long to respond"
	default:
		return "Cannot reach the chat service. Is it running?"
	}
}

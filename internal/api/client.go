// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/parley-tui/internal/model"
)

// Configuration constants for the chat service API.
const (
	// DefaultBaseURL is the base URL of a locally running chat service.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for all non-streaming requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for streaming requests (no timeout,
	// context-controlled).
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		// No timeout for streaming - controlled via context
	}
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrChatNotFound indicates the requested chat does not exist on the server.
var ErrChatNotFound = errors.New("chat not found")

// APIError represents a rejection from the chat service: the request was
// delivered and the server answered with a non-2xx status.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("chat service error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("chat service error (HTTP %d)", e.Status)
}

// Is allows a 404 APIError to match ErrChatNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrChatNotFound && e.Status == http.StatusNotFound
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat service. The zero value is not usable; construct
// with NewClient.
type Client struct {
	baseURL   string
	http      *http.Client
	streaming *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service base URL. A trailing slash is trimmed.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
			baseURL = baseURL[:len(baseURL)-1]
		}
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the timeout for non-streaming requests.
// Streaming requests remain context-controlled.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		pooled := *sharedHTTPClient
		pooled.Timeout = timeout
		c.http = &pooled
	}
}

// NewClient creates a chat service client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		http:      sharedHTTPClient,
		streaming: sharedStreamingClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListChats fetches the summaries of every chat, most recent first as
// ordered by the server.
func (c *Client) ListChats(ctx context.Context) ([]model.ChatSummary, error) {
	body, err := c.getJSON(ctx, "/chats")
	if err != nil {
		return nil, err
	}

	var chats []model.ChatSummary
	if err := json.Unmarshal(body, &chats); err != nil {
		return nil, fmt.Errorf("decode chat list: %w", err)
	}
	return chats, nil
}

// FetchMessages fetches the full message history of one chat.
func (c *Client) FetchMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	body, err := c.getJSON(ctx, "/chats/"+url.PathEscape(chatID)+"/messages")
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// CreateChat creates a new chat seeded with the first user message. The
// server streams the serialized chat back; onChunk (optional) observes the
// raw text as it arrives, and the concatenated body is decoded into the
// complete new chat, reply included.
func (c *Client) CreateChat(ctx context.Context, first model.Message, onChunk StreamCallback) (*model.FullChat, error) {
	full, err := c.postStream(ctx, "/chats", first, onChunk)
	if err != nil {
		return nil, err
	}

	var chat model.FullChat
	if err := json.Unmarshal([]byte(full), &chat); err != nil {
		return nil, fmt.Errorf("decode created chat: %w", err)
	}
	return &chat, nil
}

// AppendMessage sends a user message to an existing chat. The server
// streams the model's reply as plain text; onChunk (optional) observes each
// decoded chunk, and the complete reply is returned once the stream ends.
func (c *Client) AppendMessage(ctx context.Context, chatID string, msg model.Message, onChunk StreamCallback) (string, error) {
	return c.postStream(ctx, "/chats/"+url.PathEscape(chatID)+"/messages", msg, onChunk)
}

// DeleteChat removes a chat and its history from the server.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/chats/"+url.PathEscape(chatID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	log.Printf("API Request: DELETE /chats/%s", chatID)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("API Error: DELETE /chats/%s: %v", chatID, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readResponse(resp.Body)
		log.Printf("API Error: DELETE /chats/%s: HTTP %d", chatID, resp.StatusCode)
		return newAPIError(resp.StatusCode, body)
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
	return nil
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// getJSON performs a GET and returns the size-capped response body.
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("API Request: GET %s", path)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("API Error: GET %s: %v", path, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("API Error: GET %s: HTTP %d", path, resp.StatusCode)
		return nil, newAPIError(resp.StatusCode, body)
	}
	log.Printf("API Response: GET %s: HTTP %d (%d bytes)", path, resp.StatusCode, len(body))
	return body, nil
}

// postStream POSTs a JSON message body and streams the response text
// through the UTF-8 chunk decoder. Returns the concatenated response.
func (c *Client) postStream(ctx context.Context, path string, msg model.Message, onChunk StreamCallback) (string, error) {
	bodyBytes, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Streaming client: no client timeout, lifetime bound to ctx.
	log.Printf("API Request: POST %s (%d bytes)", path, len(bodyBytes))
	resp, err := c.streaming.Do(req)
	if err != nil {
		log.Printf("API Error: POST %s: %v", path, err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readResponse(resp.Body)
		log.Printf("API Error: POST %s: HTTP %d", path, resp.StatusCode)
		return "", newAPIError(resp.StatusCode, body)
	}

	full, err := readStream(ctx, resp.Body, onChunk)
	if err != nil {
		log.Printf("API Error: POST %s: stream: %v", path, err)
		return full, err
	}
	log.Printf("API Response: POST %s: HTTP %d (%d bytes streamed)", path, resp.StatusCode, len(full))
	return full, nil
}

// readResponse reads a response body with the size cap applied.
func readResponse(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", MaxResponseSize)
	}
	return body, nil
}

// newAPIError maps a non-2xx response to an *APIError, extracting the
// FastAPI-style {"detail": "..."} message when present.
func newAPIError(status int, body []byte) error {
	detail := struct {
		Detail string `json:"detail"`
	}{}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &APIError{Status: status, Body: detail.Detail}
	}

	text := string(bytes.TrimSpace(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return &APIError{Status: status, Body: text}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

// streamReadSize is the read buffer size for streamed response bodies.
const streamReadSize = 4 * 1024

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamCallback is called for each decoded chunk of streamed text.
// Chunks always contain complete runes; a multi-byte character split
// across network reads is held back until its remaining bytes arrive.
type StreamCallback func(chunk string)

// StreamError represents an error that occurred mid-stream, preserving
// any partial content received before the failure.
type StreamError struct {
	Partial string // Content received before error
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// UTF-8 CHUNK DECODER
// =============================================================================

// utf8Decoder converts a byte stream into rune-aligned string chunks.
//
// Network reads slice the body at arbitrary byte offsets, so a chunk can
// end in the middle of a multi-byte rune. The transformer is stateful:
// trailing incomplete bytes are carried into the next Write call instead
// of being emitted broken. Malformed bytes decode to U+FFFD rather than
// aborting the stream.
type utf8Decoder struct {
	tr  transform.Transformer
	src []byte
	dst []byte
}

func newUTF8Decoder() *utf8Decoder {
	return &utf8Decoder{
		tr:  unicode.UTF8.NewDecoder(),
		dst: make([]byte, streamReadSize*2),
	}
}

// Write feeds raw bytes in and returns the runes that are complete so far.
func (d *utf8Decoder) Write(p []byte) (string, error) {
	return d.transform(p, false)
}

// Flush drains the carry at end of stream. A dangling partial rune at EOF
// is malformed input and decodes to U+FFFD.
func (d *utf8Decoder) Flush() (string, error) {
	return d.transform(nil, true)
}

func (d *utf8Decoder) transform(p []byte, atEOF bool) (string, error) {
	d.src = append(d.src, p...)

	var out strings.Builder
	for len(d.src) > 0 {
		if need := len(d.src)*3 + utf8.UTFMax; cap(d.dst) < need {
			d.dst = make([]byte, need)
		}
		nDst, nSrc, err := d.tr.Transform(d.dst[:cap(d.dst)], d.src, atEOF)
		out.Write(d.dst[:nDst])
		d.src = append(d.src[:0], d.src[nSrc:]...)

		switch err {
		case nil:
			return out.String(), nil
		case transform.ErrShortSrc:
			// Incomplete rune at the tail; wait for the next chunk.
			return out.String(), nil
		case transform.ErrShortDst:
			continue
		default:
			return out.String(), fmt.Errorf("decode stream: %w", err)
		}
	}
	return out.String(), nil
}

// =============================================================================
// STREAM READER
// =============================================================================

// readStream consumes a streamed response body, pushing decoded text
// through onChunk (which may be nil) and returning the concatenation.
// Honors context cancellation between reads; mid-stream failures come
// back as *StreamError carrying the partial content.
func readStream(ctx context.Context, body io.Reader, onChunk StreamCallback) (string, error) {
	decoder := newUTF8Decoder()
	var accumulated strings.Builder
	buf := make([]byte, streamReadSize)

	emit := func(text string) error {
		if text == "" {
			return nil
		}
		accumulated.WriteString(text)
		if accumulated.Len() > MaxResponseSize {
			return fmt.Errorf("response too large: exceeds %d bytes", MaxResponseSize)
		}
		if onChunk != nil {
			onChunk(text)
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: ctx.Err()}
		default:
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			text, err := decoder.Write(buf[:n])
			if err != nil {
				return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: err}
			}
			if err := emit(text); err != nil {
				return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: err}
			}
		}

		if readErr == io.EOF {
			text, err := decoder.Flush()
			if err != nil {
				return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: err}
			}
			if err := emit(text); err != nil {
				return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: err}
			}
			return accumulated.String(), nil
		}
		if readErr != nil {
			return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: readErr}
		}
	}
}

// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

// Package dispatch contains the provider adapters and the fan-out
// coordinator that forward one conversion event to up to three collectors.
//
// Each adapter owns the full lifecycle of its destination call: credential
// check, payload construction via package normalize, PII hashing at the
// wire boundary, one HTTP POST, and destination-specific response
// interpretation. Adapters never return errors; every outcome is folded
// into a models.DispatchResult so the coordinator can isolate destinations
// from each other.
package dispatch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// defaultTimeout bounds each outbound destination call. The coordinator
// itself imposes no deadline; a slow destination only delays its own result.
const defaultTimeout = 30 * time.Second

// maxErrorBodySize limits the response body read for error reporting.
// Prevents unbounded memory allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Adapter is one destination's sender. Implementations convert every
// failure mode (missing credentials, transport errors, provider rejections,
// malformed responses) into the returned DispatchResult; they never panic
// and never return an error.
type Adapter interface {
	Destination() models.Destination
	Send(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchResult
}

// newHTTPClient builds the per-adapter HTTP client.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultTimeout,
	}
}

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

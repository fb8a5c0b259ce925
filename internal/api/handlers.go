// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

// Package api is the ingress boundary: it decodes incoming conversion
// events, enriches the user context with server-observed transport facts,
// and hands the result to the dispatch coordinator.
package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Dispatcher is the coordinator seam. Satisfied by *dispatch.Coordinator.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchReport
}

// Handler carries the dependencies of all HTTP endpoints.
type Handler struct {
	cfg        *config.Config
	dispatcher Dispatcher
	startTime  time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(cfg *config.Config, dispatcher Dispatcher) *Handler {
	return &Handler{
		cfg:        cfg,
		dispatcher: dispatcher,
		startTime:  time.Now(),
	}
}

// clientIP extracts the remote address without the port. RealIP middleware
// has already folded X-Forwarded-For into RemoteAddr by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr had no port (already a bare IP after RealIP)
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package api

import (
	"net/http"
	"time"

	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// Health handles GET /api/v1/health. It reports uptime and which
// destinations currently have a complete credential pair, never the
// credential values themselves.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Destinations: map[string]bool{
			string(models.DestinationAnalytics):  h.cfg.GA4.Configured(),
			string(models.DestinationAds):        h.cfg.Meta.Configured(),
			string(models.DestinationShortVideo): h.cfg.TikTok.Configured(),
		},
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
	})
}

// HealthLive handles GET /api/v1/health/live. Process-up probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "alive"},
	})
}

// HealthReady handles GET /api/v1/health/ready. The relay has no local
// state to warm up, so readiness equals liveness; the endpoint exists for
// orchestrators that require both probes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "ready"},
	})
}

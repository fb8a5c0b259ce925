// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mreyes-dev/beaconrelay/internal/logging"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// maxEventBodySize caps the request body; conversion events are small and
// anything larger is abuse.
const maxEventBodySize = 256 * 1024 // 256KB

// collectRequest is the wire shape of both ingestion endpoints. The
// optional top-level consent block overrides user.consent when present,
// for callers whose consent manager reports separately from their
// identity layer.
type collectRequest struct {
	Event   models.CanonicalEvent `json:"event"`
	User    models.UserContext    `json:"user"`
	Consent *models.Consent       `json:"consent,omitempty"`
}

// CollectEvent handles POST /api/v1/events/collect. It accepts all three
// event names.
func (h *Handler) CollectEvent(w http.ResponseWriter, r *http.Request) {
	h.ingestEvent(w, r, "collect", nil)
}

// PixelEvent handles POST /api/v1/events/pixel, the endpoint exposed to
// browser beacons. Purchase events must originate from the trusted
// server-side checkout flow, so this endpoint refuses them.
func (h *Handler) PixelEvent(w http.ResponseWriter, r *http.Request) {
	h.ingestEvent(w, r, "pixel", func(event *models.CanonicalEvent) *models.APIError {
		if event.EventName == models.EventPurchase {
			return &models.APIError{
				Code:    "EVENT_NOT_ALLOWED",
				Message: "purchase events are not accepted on the pixel endpoint",
			}
		}
		return nil
	})
}

// ingestEvent is the shared decode/enrich/validate/dispatch path.
func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request, source string, restrict func(*models.CanonicalEvent) *models.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodySize)

	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordRejection("decode")
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}

	if restrict != nil {
		if apiErr := restrict(&req.Event); apiErr != nil {
			metrics.RecordRejection("event_not_allowed")
			respondError(w, r, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
			return
		}
	}

	if apiErr := validateRequest(&req.Event); apiErr != nil {
		metrics.RecordRejection("validation")
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	// Server-observed transport facts always win over caller-supplied
	// values: a page script cannot spoof its own IP or user agent.
	req.User.IPAddress = clientIP(r)
	req.User.UserAgent = r.UserAgent()
	if req.Consent != nil {
		req.User.Consent = *req.Consent
	}

	// The dedup key and timestamp are filled here, not in the normalizer,
	// so every destination sees identical values.
	if req.Event.EventID == "" {
		req.Event.EventID = uuid.NewString()
	}
	if req.Event.Timestamp.IsZero() {
		req.Event.Timestamp = time.Now()
	}

	metrics.RecordIngestion(string(req.Event.EventName), source)
	logging.Ctx(r.Context()).Info().
		Str("event_name", string(req.Event.EventName)).
		Str("event_id", req.Event.EventID).
		Str("source", source).
		Msg("Event accepted for dispatch")

	report := h.dispatcher.Dispatch(r.Context(), &req.Event, &req.User)

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   report,
	})
}

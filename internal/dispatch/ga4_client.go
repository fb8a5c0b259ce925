// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/logging"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/models"
	"github.com/mreyes-dev/beaconrelay/internal/normalize"
	"github.com/mreyes-dev/beaconrelay/internal/pii"
)

// ga4Endpoint is the GA4 Measurement Protocol collection endpoint.
const ga4Endpoint = "https://www.google-analytics.com/mp/collect"

// GA4Client sends conversion events to Google Analytics 4 via the
// Measurement Protocol. Auth rides in the query string (measurement_id +
// api_secret); success is signalled solely by a 2xx status with an empty
// body, typically 204.
//
// Thread Safety: safe for concurrent use. Each Send builds its own request.
type GA4Client struct {
	measurementID string
	apiSecret     string
	baseURL       string
	client        *http.Client
}

var _ Adapter = (*GA4Client)(nil)

// NewGA4Client creates a GA4 Measurement Protocol adapter.
func NewGA4Client(cfg config.GA4Config) *GA4Client {
	return &GA4Client{
		measurementID: cfg.MeasurementID,
		apiSecret:     cfg.APISecret,
		baseURL:       ga4Endpoint,
		client:        newHTTPClient(),
	}
}

// Destination identifies this adapter's collector.
func (c *GA4Client) Destination() models.Destination {
	return models.DestinationAnalytics
}

// Send forwards one event to GA4. Hashed email/phone land in
// user_data; raw values never leave the process.
func (c *GA4Client) Send(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchResult {
	if c.measurementID == "" || c.apiSecret == "" {
		return models.SkippedResult(c.Destination(), models.ReasonMissingCredentials)
	}

	payload, err := normalize.ForAnalytics(event)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("build payload: %v", err))
	}

	payload.ClientID = user.ClientID
	payload.UserID = user.UserID
	if hashedEmail, hashedPhone := pii.Hash(user.Email), pii.Hash(user.Phone); hashedEmail != "" || hashedPhone != "" {
		payload.UserData = &models.GA4UserData{
			Sha256EmailAddress: hashedEmail,
			Sha256PhoneNumber:  hashedPhone,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("encode payload: %v", err))
	}

	query := url.Values{}
	query.Set("measurement_id", c.measurementID)
	query.Set("api_secret", c.apiSecret)
	reqURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.DispatchUpstreamStatus.WithLabelValues(string(c.Destination()), strconv.Itoa(resp.StatusCode)).Inc()

	// The Measurement Protocol returns 204 with no body on success and
	// never reports per-event errors inline, so the status code is the
	// whole signal.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody := readBodyForError(resp.Body)
		logging.Ctx(ctx).Warn().
			Str("destination", string(c.Destination())).
			Int("status", resp.StatusCode).
			Msg("Collector rejected event")
		return models.FailedResult(c.Destination(), fmt.Sprintf("HTTP %d: %s", resp.StatusCode, errBody))
	}

	logging.Ctx(ctx).Debug().
		Str("destination", string(c.Destination())).
		Str("event_id", event.EventID).
		Msg("Event accepted")

	return models.DispatchResult{Destination: c.Destination(), Success: true}
}

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

// metaBaseURL is the Graph API root for the Conversions API.
const metaBaseURL = "https://graph.facebook.com/v18.0"

// MetaClient sends conversion events to the Meta Conversions API.
// Auth rides in the query string (access_token); the endpoint path embeds
// the pixel ID. Success is a 2xx status with a parseable JSON body; on
// rejection the Graph API's structured error detail is surfaced when present.
//
// Thread Safety: safe for concurrent use. Each Send builds its own request.
type MetaClient struct {
	pixelID       string
	accessToken   string
	testEventCode string
	baseURL       string
	client        *http.Client
}

var _ Adapter = (*MetaClient)(nil)

// NewMetaClient creates a Meta Conversions API adapter.
func NewMetaClient(cfg config.MetaConfig) *MetaClient {
	return &MetaClient{
		pixelID:       cfg.PixelID,
		accessToken:   cfg.AccessToken,
		testEventCode: cfg.TestEventCode,
		baseURL:       metaBaseURL,
		client:        newHTTPClient(),
	}
}

// Destination identifies this adapter's collector.
func (c *MetaClient) Destination() models.Destination {
	return models.DestinationAds
}

// Send forwards one event to Meta. Email and phone are hashed at this
// boundary; IP, user agent and the _fbc/_fbp cookies pass through into
// user_data for provider-side attribution matching.
func (c *MetaClient) Send(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchResult {
	if c.pixelID == "" || c.accessToken == "" {
		return models.SkippedResult(c.Destination(), models.ReasonMissingCredentials)
	}

	payload, err := normalize.ForAds(event)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("build payload: %v", err))
	}

	userData := models.MetaUserData{
		ClientIPAddress: user.IPAddress,
		ClientUserAgent: user.UserAgent,
		Fbc:             user.Fbc,
		Fbp:             user.Fbp,
	}
	if hashed := pii.Hash(user.Email); hashed != "" {
		userData.Em = []string{hashed}
	}
	if hashed := pii.Hash(user.Phone); hashed != "" {
		userData.Ph = []string{hashed}
	}
	if hashed := pii.Hash(user.UserID); hashed != "" {
		userData.ExternalID = []string{hashed}
	}
	payload.Data[0].UserData = userData
	payload.TestEventCode = c.testEventCode

	body, err := json.Marshal(payload)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("encode payload: %v", err))
	}

	query := url.Values{}
	query.Set("access_token", c.accessToken)
	reqURL := fmt.Sprintf("%s/%s/events?%s", c.baseURL, c.pixelID, query.Encode())

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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody := readBodyForError(resp.Body)
		logging.Ctx(ctx).Warn().
			Str("destination", string(c.Destination())).
			Int("status", resp.StatusCode).
			Msg("Collector rejected event")
		// The Graph API wraps rejections in a structured error object;
		// surface its message and code instead of the raw body dump.
		var errResp models.MetaResponse
		if err := json.Unmarshal([]byte(errBody), &errResp); err == nil && errResp.Error != nil {
			return models.FailedResult(c.Destination(),
				fmt.Sprintf("HTTP %d: %s (code %d)", resp.StatusCode, errResp.Error.Message, errResp.Error.Code))
		}
		return models.FailedResult(c.Destination(), fmt.Sprintf("HTTP %d: %s", resp.StatusCode, errBody))
	}

	// A 2xx with an unparseable body counts as a failure: the Graph API
	// always answers JSON, so anything else means we did not reach it.
	var metaResp models.MetaResponse
	if err := json.NewDecoder(resp.Body).Decode(&metaResp); err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("parse response: %v", err))
	}

	logging.Ctx(ctx).Debug().
		Str("destination", string(c.Destination())).
		Str("event_id", event.EventID).
		Int("events_received", metaResp.EventsReceived).
		Msg("Event accepted")

	result := models.DispatchResult{Destination: c.Destination(), Success: true}
	received := metaResp.EventsReceived
	result.EventsReceived = &received
	return result
}

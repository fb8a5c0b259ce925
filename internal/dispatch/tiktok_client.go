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
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/logging"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/models"
	"github.com/mreyes-dev/beaconrelay/internal/normalize"
	"github.com/mreyes-dev/beaconrelay/internal/pii"
)

// tiktokEndpoint is the TikTok Events API v1.3 track endpoint.
const tiktokEndpoint = "https://business-api.tiktok.com/open_api/v1.3/event/track/"

// TikTokClient sends conversion events to the TikTok Events API.
// Auth rides in the Access-Token request header. Success requires BOTH a
// 2xx status AND an in-body code of zero; TikTok reports most rejections
// as a 200 with a nonzero code.
//
// Thread Safety: safe for concurrent use. Each Send builds its own request.
type TikTokClient struct {
	pixelCode   string
	accessToken string
	baseURL     string
	client      *http.Client
}

var _ Adapter = (*TikTokClient)(nil)

// NewTikTokClient creates a TikTok Events API adapter.
func NewTikTokClient(cfg config.TikTokConfig) *TikTokClient {
	return &TikTokClient{
		pixelCode:   cfg.PixelCode,
		accessToken: cfg.AccessToken,
		baseURL:     tiktokEndpoint,
		client:      newHTTPClient(),
	}
}

// Destination identifies this adapter's collector.
func (c *TikTokClient) Destination() models.Destination {
	return models.DestinationShortVideo
}

// Send forwards one event to TikTok. Email and phone are hashed at this
// boundary; IP, user agent and the ttclid/_ttp cookies pass through into
// the user sub-structure.
func (c *TikTokClient) Send(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchResult {
	if c.pixelCode == "" || c.accessToken == "" {
		return models.SkippedResult(c.Destination(), models.ReasonMissingCredentials)
	}

	payload, err := normalize.ForShortVideo(event)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("build payload: %v", err))
	}

	payload.EventSourceID = c.pixelCode
	payload.Data[0].User = models.TikTokUser{
		Email:      pii.Hash(user.Email),
		Phone:      pii.Hash(user.Phone),
		ExternalID: pii.Hash(user.UserID),
		IP:         user.IPAddress,
		UserAgent:  user.UserAgent,
		Ttclid:     user.Ttclid,
		Ttp:        user.Ttp,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("encode payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Access-Token", c.accessToken)

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
		return models.FailedResult(c.Destination(), fmt.Sprintf("HTTP %d: %s", resp.StatusCode, errBody))
	}

	var ttResp models.TikTokResponse
	if err := json.NewDecoder(resp.Body).Decode(&ttResp); err != nil {
		return models.FailedResult(c.Destination(), fmt.Sprintf("parse response: %v", err))
	}

	// Transport-level success is not enough: a 2xx with a nonzero code is
	// a rejection.
	if ttResp.Code != 0 {
		logging.Ctx(ctx).Warn().
			Str("destination", string(c.Destination())).
			Int("code", ttResp.Code).
			Str("message", ttResp.Message).
			Msg("Collector rejected event")
		return models.FailedResult(c.Destination(), fmt.Sprintf("code %d: %s", ttResp.Code, ttResp.Message))
	}

	logging.Ctx(ctx).Debug().
		Str("destination", string(c.Destination())).
		Str("event_id", event.EventID).
		Str("request_id", ttResp.RequestID).
		Msg("Event accepted")

	return models.DispatchResult{Destination: c.Destination(), Success: true}
}

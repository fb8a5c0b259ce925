// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

// TikTokPayload is the request body for the TikTok Events API v1.3
// (/open_api/v1.3/event/track/).
//
// Reference: https://business-api.tiktok.com/portal/docs?id=1771100865818625
type TikTokPayload struct {
	EventSource   string        `json:"event_source"`
	EventSourceID string        `json:"event_source_id"`
	Data          []TikTokEvent `json:"data"`
}

// TikTokEvent is one event within an Events API payload.
type TikTokEvent struct {
	Event      string            `json:"event"`
	EventTime  int64             `json:"event_time"`
	EventID    string            `json:"event_id"`
	User       TikTokUser        `json:"user"`
	Properties *TikTokProperties `json:"properties,omitempty"`
}

// TikTokUser is the user-identification sub-structure. Email and Phone hold
// SHA-256 hex digests of the normalized raw values. Ttclid and Ttp are the
// TikTok attribution cookies passed through opaquely.
type TikTokUser struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	Ttclid     string `json:"ttclid,omitempty"`
	Ttp        string `json:"ttp,omitempty"`
}

// TikTokProperties holds the commerce fields. OrderID is only set for
// purchase events.
type TikTokProperties struct {
	Currency    string          `json:"currency"`
	Value       float64         `json:"value"`
	OrderID     string          `json:"order_id,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	Contents    []TikTokContent `json:"contents,omitempty"`
}

// TikTokContent is one product line in TikTok's contents array shape.
type TikTokContent struct {
	ContentID       string  `json:"content_id"`
	ContentName     string  `json:"content_name,omitempty"`
	ContentCategory string  `json:"content_category,omitempty"`
	Brand           string  `json:"brand,omitempty"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
}

// TikTokResponse is the Events API response envelope. TikTok signals success
// with HTTP 2xx AND Code == 0; a 2xx with a nonzero Code is a failure.
type TikTokResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

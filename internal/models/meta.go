// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

// MetaPayload is the request body for the Meta Conversions API
// ({pixel_id}/events on graph.facebook.com).
//
// Reference: https://developers.facebook.com/docs/marketing-api/conversions-api
type MetaPayload struct {
	Data          []MetaEvent `json:"data"`
	TestEventCode string      `json:"test_event_code,omitempty"`
}

// MetaEvent is one event within a Conversions API payload.
// EventID carries the cross-provider deduplication key; Meta matches it
// against the browser pixel's eventID for the same logical event.
type MetaEvent struct {
	EventName      string          `json:"event_name"`
	EventTime      int64           `json:"event_time"`
	EventID        string          `json:"event_id"`
	ActionSource   string          `json:"action_source"`
	EventSourceURL string          `json:"event_source_url,omitempty"`
	UserData       MetaUserData    `json:"user_data"`
	CustomData     *MetaCustomData `json:"custom_data,omitempty"`
}

// MetaUserData is the user-identification sub-structure. Em and Ph hold
// SHA-256 hex digests of normalized email/phone, never raw values. Fbc and
// Fbp are the Meta attribution cookies passed through opaquely.
type MetaUserData struct {
	Em              []string `json:"em,omitempty"`
	Ph              []string `json:"ph,omitempty"`
	ExternalID      []string `json:"external_id,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	Fbc             string   `json:"fbc,omitempty"`
	Fbp             string   `json:"fbp,omitempty"`
}

// MetaCustomData holds the commerce fields. OrderID is only set for
// purchase events.
type MetaCustomData struct {
	Currency    string        `json:"currency"`
	Value       float64       `json:"value"`
	OrderID     string        `json:"order_id,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	ContentIDs  []string      `json:"content_ids,omitempty"`
	Contents    []MetaContent `json:"contents,omitempty"`
}

// MetaContent is one product line in Meta's contents array shape.
type MetaContent struct {
	ID        string  `json:"id"`
	Quantity  int     `json:"quantity"`
	ItemPrice float64 `json:"item_price"`
}

// MetaResponse is the Conversions API response envelope. A 2xx status with
// a parseable body is treated as success; EventsReceived is kept as a
// diagnostic.
type MetaResponse struct {
	EventsReceived int        `json:"events_received"`
	FbtraceID      string     `json:"fbtrace_id,omitempty"`
	Error          *MetaError `json:"error,omitempty"`
}

// MetaError is the structured error detail Meta returns on non-2xx.
type MetaError struct {
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	Code      int    `json:"code,omitempty"`
	FbtraceID string `json:"fbtrace_id,omitempty"`
}

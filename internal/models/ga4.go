// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

// GA4Payload is the request body for the Google Analytics 4 Measurement
// Protocol collection endpoint (/mp/collect).
//
// Reference: https://developers.google.com/analytics/devguides/collection/protocol/ga4
type GA4Payload struct {
	ClientID        string       `json:"client_id"`
	UserID          string       `json:"user_id,omitempty"`
	TimestampMicros int64        `json:"timestamp_micros,omitempty"`
	UserData        *GA4UserData `json:"user_data,omitempty"`
	Events          []GA4Event   `json:"events"`
}

// GA4UserData carries user-provided data for enhanced conversions.
// Values are SHA-256 hex digests of the normalized raw values, never the
// raw values themselves.
type GA4UserData struct {
	Sha256EmailAddress string `json:"sha256_email_address,omitempty"`
	Sha256PhoneNumber  string `json:"sha256_phone_number,omitempty"`
}

// GA4Event is one event within a Measurement Protocol payload.
type GA4Event struct {
	Name   string    `json:"name"`
	Params GA4Params `json:"params"`
}

// GA4Params holds the event parameters. EventID is a custom parameter that
// threads the cross-provider deduplication key; TransactionID is only set
// for purchase events.
type GA4Params struct {
	Currency      string    `json:"currency"`
	Value         float64   `json:"value"`
	EventID       string    `json:"event_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Items         []GA4Item `json:"items"`
}

// GA4Item is one product line in GA4's items array shape.
type GA4Item struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name,omitempty"`
	ItemCategory string  `json:"item_category,omitempty"`
	ItemBrand    string  `json:"item_brand,omitempty"`
	ItemVariant  string  `json:"item_variant,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

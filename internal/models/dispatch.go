// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

// Destination identifies one of the three external collectors.
type Destination string

// The three destinations.
const (
	DestinationAnalytics  Destination = "analytics"  // Google Analytics 4 Measurement Protocol
	DestinationAds        Destination = "ads"        // Meta Conversions API
	DestinationShortVideo Destination = "shortvideo" // TikTok Events API
)

// Skip reasons reported in DispatchResult.Error when a destination was not
// called at all. These are distinguishable from adapter-level failures so
// callers can tell "we chose not to send" from "we sent and it broke".
const (
	ReasonMissingCredentials = "missing credentials"
	ReasonConsentNotGranted  = "consent not granted"
)

// DispatchResult is the per-destination outcome of one dispatch.
//
// Exactly one DispatchResult exists per destination per dispatch call.
// Skipped is true when no network call was attempted (missing credentials
// or consent not granted); Error then carries the skip reason. A failed
// network attempt has Skipped false and Error carrying the provider status
// or transport error.
type DispatchResult struct {
	Destination Destination `json:"destination"`
	Success     bool        `json:"success"`
	Skipped     bool        `json:"skipped,omitempty"`
	Error       string      `json:"error,omitempty"`

	// EventsReceived is a provider diagnostic: the number of events the
	// collector acknowledged in its response body. Only Meta reports it.
	EventsReceived *int `json:"events_received,omitempty"`
}

// SkippedResult builds a DispatchResult for a destination that was never
// called.
func SkippedResult(dest Destination, reason string) DispatchResult {
	return DispatchResult{Destination: dest, Success: false, Skipped: true, Error: reason}
}

// FailedResult builds a DispatchResult for a destination whose call was
// attempted and failed.
func FailedResult(dest Destination, errMsg string) DispatchResult {
	return DispatchResult{Destination: dest, Success: false, Error: errMsg}
}

// DispatchReport aggregates the three per-destination results of one
// dispatch call. All three fields are always populated.
type DispatchReport struct {
	Analytics  DispatchResult `json:"analytics"`
	Ads        DispatchResult `json:"ads"`
	ShortVideo DispatchResult `json:"shortvideo"`
}

// AllSucceeded reports whether every destination accepted the event.
func (r DispatchReport) AllSucceeded() bool {
	return r.Analytics.Success && r.Ads.Success && r.ShortVideo.Success
}

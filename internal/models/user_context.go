// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

// UserContext carries the caller- and server-observed identity and consent
// signals for one dispatch. It is constructed fresh per request and never
// persisted.
//
// Email and Phone hold RAW values: they are owned exclusively by this struct
// until the PII hasher consumes them inside a provider adapter. Raw values
// must never cross the adapter boundary onto the wire.
//
// IPAddress and UserAgent are server-observed: the ingress boundary
// overwrites them from the transport layer regardless of what the caller
// supplied.
type UserContext struct {
	ClientID string `json:"client_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`

	// Raw PII, pre-hash. See package pii.
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// Server-observed transport context.
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	// Provider-specific ad-attribution cookies, passed through opaquely.
	Fbc    string `json:"fbc,omitempty"`    // Meta click ID cookie (_fbc)
	Fbp    string `json:"fbp,omitempty"`    // Meta browser ID cookie (_fbp)
	Ttclid string `json:"ttclid,omitempty"` // TikTok click ID
	Ttp    string `json:"ttp,omitempty"`    // TikTok browser ID cookie (_ttp)

	Consent Consent `json:"consent"`
}

// Consent holds per-purpose grant flags. A destination whose required
// purpose is not granted is never called.
type Consent struct {
	Analytics         bool `json:"analytics"`
	Advertising       bool `json:"advertising"`
	AdPersonalization bool `json:"ad_personalization"`
}

// FullConsent returns a Consent with every purpose granted. Used by tests
// and by deployments that gate consent upstream of the relay.
func FullConsent() Consent {
	return Consent{Analytics: true, Advertising: true, AdPersonalization: true}
}

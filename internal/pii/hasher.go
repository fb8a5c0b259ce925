// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

// Package pii normalizes and hashes personal data (email, phone) before it
// leaves the system boundary.
//
// Every collector matches identities on SHA-256 digests of normalized
// values, so the normalization must be deterministic: the same logical
// email must always produce the same digest regardless of case or
// surrounding whitespace.
package pii

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the lowercase hex SHA-256 digest of the normalized input.
//
// Normalization is lower-casing plus trimming surrounding whitespace. An
// empty or whitespace-only input returns "" - absence of a PII field is
// legal everywhere it can appear, not an error.
func Hash(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package pii

import (
	"regexp"
	"testing"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestHashEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"spaces only", "   "},
		{"tabs and newlines", "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.input); got != "" {
				t.Errorf("Hash(%q) = %q, want empty string", tt.input, got)
			}
		})
	}
}

func TestHashNormalization(t *testing.T) {
	// Inputs that normalize to the same value must produce the same digest.
	variants := []string{
		"buyer@example.com",
		"Buyer@Example.com",
		"  buyer@example.com  ",
		"\tBUYER@EXAMPLE.COM\n",
	}

	want := Hash(variants[0])
	for _, v := range variants[1:] {
		if got := Hash(v); got != want {
			t.Errorf("Hash(%q) = %q, want %q (same as canonical form)", v, got, want)
		}
	}
}

func TestHashOutputShape(t *testing.T) {
	digest := Hash("+63 917 555 0101")
	if !hexDigest.MatchString(digest) {
		t.Errorf("digest %q is not 64 lowercase hex chars", digest)
	}
}

func TestHashKnownVector(t *testing.T) {
	// SHA-256 of "test@example.com" - fixed vector so provider-side identity
	// matching stays stable across releases.
	const want = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"
	if got := Hash("Test@Example.COM "); got != want {
		t.Errorf("Hash known vector = %q, want %q", got, want)
	}
}

func TestHashDistinctInputs(t *testing.T) {
	if Hash("a@example.com") == Hash("b@example.com") {
		t.Error("distinct normalized inputs should produce distinct digests")
	}
}

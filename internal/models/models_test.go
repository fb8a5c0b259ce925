// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestEventNameValid(t *testing.T) {
	tests := []struct {
		name EventName
		want bool
	}{
		{EventAddToCart, true},
		{EventBeginCheckout, true},
		{EventPurchase, true},
		{"page_view", false},
		{"Purchase", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := tt.name.Valid(); got != tt.want {
				t.Errorf("EventName(%q).Valid() = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDispatchResultConstructors(t *testing.T) {
	skipped := SkippedResult(DestinationAds, ReasonConsentNotGranted)
	if skipped.Success {
		t.Error("skipped result should not be a success")
	}
	if !skipped.Skipped {
		t.Error("skipped result should have Skipped set")
	}
	if skipped.Error != ReasonConsentNotGranted {
		t.Errorf("expected reason %q, got %q", ReasonConsentNotGranted, skipped.Error)
	}

	failed := FailedResult(DestinationShortVideo, "connection refused")
	if failed.Success || failed.Skipped {
		t.Error("failed result should be neither success nor skipped")
	}
	if failed.Destination != DestinationShortVideo {
		t.Errorf("expected destination shortvideo, got %q", failed.Destination)
	}
}

func TestDispatchReportAllSucceeded(t *testing.T) {
	ok := DispatchResult{Success: true}
	report := DispatchReport{Analytics: ok, Ads: ok, ShortVideo: ok}
	if !report.AllSucceeded() {
		t.Error("report with three successes should report AllSucceeded")
	}

	report.Ads = FailedResult(DestinationAds, "boom")
	if report.AllSucceeded() {
		t.Error("report with a failed destination should not report AllSucceeded")
	}
}

func TestDispatchResultJSONShape(t *testing.T) {
	result := SkippedResult(DestinationAnalytics, ReasonMissingCredentials)
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `"destination":"analytics"`) {
		t.Errorf("expected destination in JSON, got %s", out)
	}
	if !strings.Contains(out, `"skipped":true`) {
		t.Errorf("expected skipped flag in JSON, got %s", out)
	}
	if strings.Contains(out, "events_received") {
		t.Errorf("nil diagnostic should be omitted, got %s", out)
	}
}

func TestCanonicalEventJSONRoundTrip(t *testing.T) {
	raw := `{
		"event_name": "purchase",
		"event_id": "e-42",
		"currency": "PHP",
		"value": 1499.5,
		"transaction_id": "TXN-123",
		"items": [
			{"id": "P1", "name": "Widget", "brand": "Acme", "price": 749.75, "quantity": 2}
		]
	}`

	var event CanonicalEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if event.EventName != EventPurchase {
		t.Errorf("expected event_name purchase, got %q", event.EventName)
	}
	if event.TransactionID != "TXN-123" {
		t.Errorf("expected transaction_id TXN-123, got %q", event.TransactionID)
	}
	if len(event.Items) != 1 || event.Items[0].ID != "P1" {
		t.Fatalf("expected one item with id P1, got %+v", event.Items)
	}
	if event.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", event.Items[0].Quantity)
	}
}

func TestUserContextOmitsEmptyPII(t *testing.T) {
	user := UserContext{ClientID: "c-1", Consent: FullConsent()}
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(data)
	if strings.Contains(out, `"email"`) || strings.Contains(out, `"phone"`) {
		t.Errorf("empty PII fields should be omitted, got %s", out)
	}
}

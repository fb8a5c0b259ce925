// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// fakeDispatcher captures the dispatched event/user and returns a canned
// report.
type fakeDispatcher struct {
	calls     int
	lastEvent *models.CanonicalEvent
	lastUser  *models.UserContext
	report    models.DispatchReport
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchReport {
	f.calls++
	f.lastEvent = event
	f.lastUser = user
	return f.report
}

func allOKReport() models.DispatchReport {
	return models.DispatchReport{
		Analytics:  models.DispatchResult{Destination: models.DestinationAnalytics, Success: true},
		Ads:        models.DispatchResult{Destination: models.DestinationAds, Success: true},
		ShortVideo: models.DispatchResult{Destination: models.DestinationShortVideo, Success: true},
	}
}

func newTestHandler(report models.DispatchReport) (*Handler, *fakeDispatcher) {
	dispatcher := &fakeDispatcher{report: report}
	cfg := &config.Config{
		GA4:  config.GA4Config{MeasurementID: "G-X", APISecret: "s"},
		Meta: config.MetaConfig{PixelID: "1", AccessToken: "t"},
	}
	return NewHandler(cfg, dispatcher), dispatcher
}

const validCollectBody = `{
	"event": {
		"event_name": "purchase",
		"currency": "PHP",
		"value": 199.99,
		"transaction_id": "TXN-1",
		"items": [{"id": "P1", "name": "Widget", "price": 199.99, "quantity": 1}]
	},
	"user": {
		"client_id": "c1",
		"email": "buyer@example.com",
		"ip_address": "10.0.0.99",
		"user_agent": "spoofed-agent",
		"consent": {"analytics": true, "advertising": true, "ad_personalization": true}
	}
}`

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/collect", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "integration-test/1.0")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCollectEventSuccess(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	rec := postJSON(t, handler.CollectEvent, validCollectBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	var report models.DispatchReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.AllSucceeded() {
		t.Errorf("report = %+v, want all three destinations present and succeeding", report)
	}

	if dispatcher.calls != 1 {
		t.Fatalf("dispatcher called %d times, want 1", dispatcher.calls)
	}
	if dispatcher.lastEvent.EventID == "" {
		t.Error("ingress must assign an event_id when the caller omits it")
	}
	if dispatcher.lastEvent.Timestamp.IsZero() {
		t.Error("ingress must assign a timestamp when the caller omits it")
	}
}

func TestCollectEventOverridesTransportIdentity(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	postJSON(t, handler.CollectEvent, validCollectBody)

	// httptest.NewRequest sets RemoteAddr to 192.0.2.1:1234
	if dispatcher.lastUser.IPAddress != "192.0.2.1" {
		t.Errorf("ip = %q, want server-observed 192.0.2.1 (caller sent 10.0.0.99)", dispatcher.lastUser.IPAddress)
	}
	if dispatcher.lastUser.UserAgent != "integration-test/1.0" {
		t.Errorf("user agent = %q, want server-observed header value", dispatcher.lastUser.UserAgent)
	}
}

func TestCollectEventPreservesCallerEventID(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	body := strings.Replace(validCollectBody, `"event_name": "purchase",`, `"event_name": "purchase", "event_id": "caller-id-7",`, 1)
	postJSON(t, handler.CollectEvent, body)

	if dispatcher.lastEvent.EventID != "caller-id-7" {
		t.Errorf("event_id = %q, want caller-supplied value preserved", dispatcher.lastEvent.EventID)
	}
}

func TestCollectEventTopLevelConsentOverride(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	body := `{
		"event": {"event_name": "add_to_cart", "currency": "USD", "value": 5,
			"items": [{"id": "P1", "price": 5, "quantity": 1}]},
		"user": {"client_id": "c1", "consent": {"analytics": true, "advertising": true}},
		"consent": {"analytics": false, "advertising": true}
	}`
	postJSON(t, handler.CollectEvent, body)

	if dispatcher.lastUser.Consent.Analytics {
		t.Error("top-level consent block must override user.consent")
	}
	if !dispatcher.lastUser.Consent.Advertising {
		t.Error("granted purposes in the override must survive")
	}
}

func TestCollectEventInvalidJSON(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	rec := postJSON(t, handler.CollectEvent, `{"event": not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_JSON") {
		t.Errorf("body = %s, want INVALID_JSON code", rec.Body.String())
	}
	if dispatcher.calls != 0 {
		t.Error("malformed requests must not reach the dispatcher")
	}
}

func TestCollectEventRejectsUnknownEventName(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	body := strings.Replace(validCollectBody, "purchase", "page_view", 1)
	rec := postJSON(t, handler.CollectEvent, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("body = %s, want VALIDATION_ERROR code", rec.Body.String())
	}
	if dispatcher.calls != 0 {
		t.Error("invalid events must not reach the dispatcher")
	}
}

func TestCollectEventRejectsEmptyItems(t *testing.T) {
	handler, _ := newTestHandler(allOKReport())

	body := `{"event": {"event_name": "purchase", "currency": "PHP", "value": 1, "items": []}, "user": {}}`
	rec := postJSON(t, handler.CollectEvent, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPixelEventRejectsPurchase(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	rec := postJSON(t, handler.PixelEvent, validCollectBody)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "EVENT_NOT_ALLOWED") {
		t.Errorf("body = %s, want EVENT_NOT_ALLOWED code", rec.Body.String())
	}
	if dispatcher.calls != 0 {
		t.Error("refused purchase events must not reach the dispatcher")
	}
}

func TestPixelEventAllowsAddToCart(t *testing.T) {
	handler, dispatcher := newTestHandler(allOKReport())

	body := strings.Replace(validCollectBody, "purchase", "add_to_cart", 1)
	body = strings.Replace(body, `"transaction_id": "TXN-1",`, "", 1)
	rec := postJSON(t, handler.PixelEvent, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if dispatcher.calls != 1 {
		t.Error("allowed pixel events must be dispatched")
	}
}

// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package validation

import (
	"strings"
	"testing"

	"github.com/mreyes-dev/beaconrelay/internal/models"
)

func validEvent() models.CanonicalEvent {
	return models.CanonicalEvent{
		EventName: models.EventPurchase,
		Currency:  "USD",
		Value:     59.98,
		Items: []models.LineItem{
			{ID: "SKU-1", Name: "Shirt", Price: 29.99, Quantity: 2},
		},
		TransactionID: "TXN-1",
	}
}

func TestValidateStructPasses(t *testing.T) {
	event := validEvent()
	if verr := ValidateStruct(&event); verr != nil {
		t.Fatalf("valid event rejected: %v", verr)
	}
}

func TestValidateStructRejectsUnknownEventName(t *testing.T) {
	event := validEvent()
	event.EventName = "page_view"

	verr := ValidateStruct(&event)
	if verr == nil {
		t.Fatal("expected validation error for unknown event name")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "must be one of") {
		t.Errorf("message = %q, want oneof translation", apiErr.Message)
	}
}

func TestValidateStructRejectsBadCurrency(t *testing.T) {
	event := validEvent()
	event.Currency = "DOLLARS"

	verr := ValidateStruct(&event)
	if verr == nil {
		t.Fatal("expected validation error for 5-char currency")
	}
	if !strings.Contains(verr.Error(), "exactly 3 characters") {
		t.Errorf("error = %q, want len translation", verr.Error())
	}
}

func TestValidateStructRejectsEmptyItems(t *testing.T) {
	event := validEvent()
	event.Items = nil

	if verr := ValidateStruct(&event); verr == nil {
		t.Fatal("expected validation error for missing items")
	}
}

func TestValidateStructDivesIntoItems(t *testing.T) {
	event := validEvent()
	event.Items = []models.LineItem{{ID: "SKU-1", Price: 9.99, Quantity: 0}}

	verr := ValidateStruct(&event)
	if verr == nil {
		t.Fatal("expected validation error for zero quantity line item")
	}
	if !strings.Contains(verr.Error(), "greater than 0") {
		t.Errorf("error = %q, want gt translation", verr.Error())
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	event := validEvent()
	event.EventName = ""
	event.Currency = ""

	verr := ValidateStruct(&event)
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	if len(verr.Errors()) < 2 {
		t.Fatalf("expected at least 2 field errors, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"]
	if !ok {
		t.Fatal("multi-error response should carry a fields list")
	}
	if list, ok := fields.([]map[string]interface{}); !ok || len(list) < 2 {
		t.Errorf("fields = %#v", fields)
	}
}

func TestGetValidatorReturnsSameInstance(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the singleton instance")
	}
}

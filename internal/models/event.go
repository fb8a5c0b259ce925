// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package models

import "time"

// EventName identifies a trackable e-commerce action.
//
// The set is closed: only the three values below are accepted anywhere in
// the system. The ingress boundary rejects anything else before dispatch.
type EventName string

// Supported event names.
const (
	EventAddToCart     EventName = "add_to_cart"
	EventBeginCheckout EventName = "begin_checkout"
	EventPurchase      EventName = "purchase"
)

// Valid reports whether the event name is one of the supported values.
func (n EventName) Valid() bool {
	switch n {
	case EventAddToCart, EventBeginCheckout, EventPurchase:
		return true
	}
	return false
}

// CanonicalEvent is the single internal representation of a trackable action
// before any provider-specific translation.
//
// EventID is the cross-provider deduplication key: it must be stable for a
// given real-world occurrence and unique across occurrences. Providers that
// also receive the same event from a browser pixel use it to deduplicate;
// this system performs no local suppression of repeated EventIDs.
//
// Value is the total monetary value of the event. It is NOT required to
// equal the sum of line-item subtotals (shipping, tax and discounts are the
// caller's business) and is never recomputed here.
type CanonicalEvent struct {
	EventName     EventName  `json:"event_name" validate:"required,oneof=add_to_cart begin_checkout purchase"`
	EventID       string     `json:"event_id"`
	Currency      string     `json:"currency" validate:"required,len=3"`
	Value         float64    `json:"value" validate:"gte=0"`
	Items         []LineItem `json:"items" validate:"required,min=1,dive"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp,omitempty"`
}

// LineItem is one product line within a CanonicalEvent.
// ID is the catalog identifier and is the only required field; the display
// and classification metadata is optional.
type LineItem struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Variant  string  `json:"variant,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
}

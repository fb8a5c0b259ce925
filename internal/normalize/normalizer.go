// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

// Package normalize maps the canonical event representation into each
// collector's wire schema.
//
// The normalizer is pure: no I/O, no clock, no PII. User identification
// (hashed email/phone, IP, user agent, attribution cookies) is injected by
// the provider adapters in package dispatch, so raw personal data never
// enters this package. The ingress boundary guarantees EventID and
// Timestamp are populated before an event reaches the normalizer.
package normalize

import (
	"errors"
	"fmt"

	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// Sentinel errors for malformed canonical events. These are caller errors:
// the ingress boundary rejects them before dispatch, and the normalizer
// refuses rather than recovers when they slip through.
var (
	ErrUnsupportedEventName = errors.New("unsupported event name")
	ErrMissingItems         = errors.New("event has no items")
)

// nameTranslation holds one row of the fixed event-name lookup table.
type nameTranslation struct {
	analytics  string
	ads        string
	shortVideo string
}

// nameTable is the exhaustive canonical-to-provider event-name mapping.
var nameTable = map[models.EventName]nameTranslation{
	models.EventAddToCart:     {analytics: "add_to_cart", ads: "AddToCart", shortVideo: "AddToCart"},
	models.EventBeginCheckout: {analytics: "begin_checkout", ads: "InitiateCheckout", shortVideo: "InitiateCheckout"},
	models.EventPurchase:      {analytics: "purchase", ads: "Purchase", shortVideo: "Purchase"},
}

// EventNameFor translates a canonical event name into the given
// destination's naming convention.
func EventNameFor(name models.EventName, dest models.Destination) (string, error) {
	row, ok := nameTable[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEventName, name)
	}
	switch dest {
	case models.DestinationAnalytics:
		return row.analytics, nil
	case models.DestinationAds:
		return row.ads, nil
	case models.DestinationShortVideo:
		return row.shortVideo, nil
	default:
		return "", fmt.Errorf("unknown destination %q", dest)
	}
}

// checkEvent validates the invariants every destination shares.
func checkEvent(event *models.CanonicalEvent) error {
	if _, ok := nameTable[event.EventName]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedEventName, event.EventName)
	}
	if len(event.Items) == 0 {
		return ErrMissingItems
	}
	return nil
}

// ForAnalytics builds the GA4 Measurement Protocol payload for the event.
//
// The returned payload has no user identification; the analytics adapter
// fills ClientID, UserID and UserData before sending. EventID threads into
// params.event_id so GA4 can correlate with a client-side fire of the same
// logical event, and transaction_id is populated only for purchases.
func ForAnalytics(event *models.CanonicalEvent) (*models.GA4Payload, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}

	name, _ := EventNameFor(event.EventName, models.DestinationAnalytics)

	items := make([]models.GA4Item, 0, len(event.Items))
	for i := range event.Items {
		item := &event.Items[i]
		items = append(items, models.GA4Item{
			ItemID:       item.ID,
			ItemName:     item.Name,
			ItemCategory: item.Category,
			ItemBrand:    item.Brand,
			ItemVariant:  item.Variant,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}

	params := models.GA4Params{
		Currency: event.Currency,
		Value:    event.Value,
		EventID:  event.EventID,
		Items:    items,
	}
	if event.EventName == models.EventPurchase {
		params.TransactionID = event.TransactionID
	}

	payload := &models.GA4Payload{
		Events: []models.GA4Event{{Name: name, Params: params}},
	}
	if !event.Timestamp.IsZero() {
		payload.TimestampMicros = event.Timestamp.UnixMicro()
	}

	return payload, nil
}

// ForAds builds the Meta Conversions API payload for the event.
//
// UserData is left zero for the ads adapter to fill. OrderID is populated
// only for purchases; other event types never carry it.
func ForAds(event *models.CanonicalEvent) (*models.MetaPayload, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}

	name, _ := EventNameFor(event.EventName, models.DestinationAds)

	contentIDs := make([]string, 0, len(event.Items))
	contents := make([]models.MetaContent, 0, len(event.Items))
	for i := range event.Items {
		item := &event.Items[i]
		contentIDs = append(contentIDs, item.ID)
		contents = append(contents, models.MetaContent{
			ID:        item.ID,
			Quantity:  item.Quantity,
			ItemPrice: item.Price,
		})
	}

	custom := &models.MetaCustomData{
		Currency:    event.Currency,
		Value:       event.Value,
		ContentType: "product",
		ContentIDs:  contentIDs,
		Contents:    contents,
	}
	if event.EventName == models.EventPurchase {
		custom.OrderID = event.TransactionID
	}

	metaEvent := models.MetaEvent{
		EventName:    name,
		EventID:      event.EventID,
		ActionSource: "website",
		CustomData:   custom,
	}
	if !event.Timestamp.IsZero() {
		metaEvent.EventTime = event.Timestamp.Unix()
	}

	return &models.MetaPayload{Data: []models.MetaEvent{metaEvent}}, nil
}

// ForShortVideo builds the TikTok Events API payload for the event.
//
// EventSourceID (the pixel code) and User are left zero for the shortvideo
// adapter to fill. OrderID is populated only for purchases.
func ForShortVideo(event *models.CanonicalEvent) (*models.TikTokPayload, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}

	name, _ := EventNameFor(event.EventName, models.DestinationShortVideo)

	contents := make([]models.TikTokContent, 0, len(event.Items))
	for i := range event.Items {
		item := &event.Items[i]
		contents = append(contents, models.TikTokContent{
			ContentID:       item.ID,
			ContentName:     item.Name,
			ContentCategory: item.Category,
			Brand:           item.Brand,
			Price:           item.Price,
			Quantity:        item.Quantity,
		})
	}

	props := &models.TikTokProperties{
		Currency:    event.Currency,
		Value:       event.Value,
		ContentType: "product",
		Contents:    contents,
	}
	if event.EventName == models.EventPurchase {
		props.OrderID = event.TransactionID
	}

	tiktokEvent := models.TikTokEvent{
		Event:      name,
		EventID:    event.EventID,
		Properties: props,
	}
	if !event.Timestamp.IsZero() {
		tiktokEvent.EventTime = event.Timestamp.Unix()
	}

	return &models.TikTokPayload{
		EventSource: "web",
		Data:        []models.TikTokEvent{tiktokEvent},
	}, nil
}

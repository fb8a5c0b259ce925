// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mreyes-dev/beaconrelay/internal/logging"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/models"
)

// Coordinator fans one conversion event out to the three destination
// adapters and aggregates their results.
//
// Eligibility is decided here, before any adapter runs: the analytics
// destination requires the analytics consent purpose, the two advertising
// destinations require the advertising purpose. A destination whose purpose
// is denied is short-circuited with a "consent not granted" result and its
// adapter is never invoked. Credential checks stay inside the adapters.
//
// Eligible adapters run concurrently and the coordinator waits for all of
// them to settle, so dispatch latency is the maximum of the adapter
// latencies, not the sum. There are no retries and no coordinator-level
// timeout: one attempt per destination per call is final.
type Coordinator struct {
	analytics  Adapter
	ads        Adapter
	shortVideo Adapter
}

// NewCoordinator wires the three destination adapters.
func NewCoordinator(analytics, ads, shortVideo Adapter) *Coordinator {
	return &Coordinator{
		analytics:  analytics,
		ads:        ads,
		shortVideo: shortVideo,
	}
}

// Dispatch forwards one event to every eligible destination and returns a
// report with exactly one entry per destination. Failures never cross
// destination boundaries: a panicking or failing adapter only affects its
// own entry.
func (c *Coordinator) Dispatch(ctx context.Context, event *models.CanonicalEvent, user *models.UserContext) models.DispatchReport {
	var report models.DispatchReport
	var wg sync.WaitGroup

	run := func(adapter Adapter, granted bool, slot *models.DispatchResult) {
		dest := adapter.Destination()
		if !granted {
			*slot = models.SkippedResult(dest, models.ReasonConsentNotGranted)
			metrics.RecordDispatch(string(dest), metrics.OutcomeSkipped, 0)
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			*slot = c.invoke(ctx, adapter, event, user)
		}()
	}

	run(c.analytics, user.Consent.Analytics, &report.Analytics)
	run(c.ads, user.Consent.Advertising, &report.Ads)
	run(c.shortVideo, user.Consent.Advertising, &report.ShortVideo)

	wg.Wait()

	logging.Ctx(ctx).Info().
		Str("event_id", event.EventID).
		Str("event_name", string(event.EventName)).
		Bool("analytics_ok", report.Analytics.Success).
		Bool("ads_ok", report.Ads.Success).
		Bool("shortvideo_ok", report.ShortVideo.Success).
		Msg("Dispatch settled")

	return report
}

// invoke runs one adapter with panic isolation and metric recording.
func (c *Coordinator) invoke(ctx context.Context, adapter Adapter, event *models.CanonicalEvent, user *models.UserContext) (result models.DispatchResult) {
	dest := adapter.Destination()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().
				Str("destination", string(dest)).
				Interface("panic", r).
				Msg("Adapter panicked")
			result = models.FailedResult(dest, fmt.Sprintf("adapter panic: %v", r))
		}

		outcome := metrics.OutcomeFailure
		switch {
		case result.Success:
			outcome = metrics.OutcomeSuccess
		case result.Skipped:
			outcome = metrics.OutcomeSkipped
		}
		metrics.RecordDispatch(string(dest), outcome, time.Since(start))
	}()

	return adapter.Send(ctx, event, user)
}

// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - Event ingestion counts
// - Per-destination dispatch outcomes and upstream call latency

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Event Ingestion Metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_ingested_total",
			Help: "Total number of conversion events accepted for dispatch",
		},
		[]string{"event_name", "source"}, // source: "collect", "pixel"
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_rejected_total",
			Help: "Total number of conversion events rejected at ingestion",
		},
		[]string{"reason"}, // "validation", "decode", "event_not_allowed"
	)

	// Dispatch Metrics
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_total",
			Help: "Total number of per-destination dispatch attempts",
		},
		[]string{"destination", "outcome"}, // outcome: "success", "failure", "skipped"
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_seconds",
			Help:    "Duration of upstream destination calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"destination"},
	)

	DispatchUpstreamStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_upstream_status_total",
			Help: "HTTP status codes returned by destination platforms",
		},
		[]string{"destination", "status_code"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// Dispatch outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDispatch records the outcome of a single destination dispatch.
// Skipped dispatches carry no duration because no upstream call was made.
func RecordDispatch(destination, outcome string, duration time.Duration) {
	DispatchTotal.WithLabelValues(destination, outcome).Inc()
	if outcome != OutcomeSkipped {
		DispatchDuration.WithLabelValues(destination).Observe(duration.Seconds())
	}
}

// RecordIngestion records an accepted conversion event.
func RecordIngestion(eventName, source string) {
	EventsIngested.WithLabelValues(eventName, source).Inc()
}

// RecordRejection records a conversion event rejected at ingestion.
func RecordRejection(reason string) {
	EventsRejected.WithLabelValues(reason).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

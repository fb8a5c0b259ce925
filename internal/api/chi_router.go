// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/middleware"
)

// NewRouter wires all routes and the global middleware stack.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Route("/api/v1/events", func(r chi.Router) {
		r.Use(rateLimit(&cfg.Security))
		r.Use(middleware.PrometheusMetrics)
		r.Post("/collect", handler.CollectEvent)
		r.Post("/pixel", handler.PixelEvent)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit builds the per-IP ingress rate limiter, or a no-op when
// disabled in configuration.
func rateLimit(sec *config.SecurityConfig) func(http.Handler) http.Handler {
	if sec.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		sec.RateLimitReqs,
		sec.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests", nil)
		}),
	)
}

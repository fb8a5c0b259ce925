// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

// Package main is the entry point for the Beacon Relay server.
//
// Beacon Relay is a server-side conversion event gateway: online shops post
// add_to_cart, begin_checkout and purchase events to it once, and the relay
// fans each event out to Google Analytics 4 (Measurement Protocol), the
// Meta Conversions API and the TikTok Events API in their respective wire
// formats. Email and phone are SHA-256 hashed before they touch any wire;
// per-purpose consent decides which destinations are called at all.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, JSON or console format
//  3. Destination adapters and dispatch coordinator
//  4. HTTP server under a suture supervision tree
//
// # Configuration
//
// Destination credentials come in pairs; a missing or incomplete pair
// disables that destination rather than failing startup:
//
//	export GA4_MEASUREMENT_ID=G-XXXXXXXXXX
//	export GA4_API_SECRET=...
//	export META_PIXEL_ID=...
//	export META_ACCESS_TOKEN=...
//	export TIKTOK_PIXEL_CODE=...
//	export TIKTOK_ACCESS_TOKEN=...
//	export HTTP_PORT=8080
//	./beaconrelay
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections and waits up to 10 seconds for in-flight dispatches.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mreyes-dev/beaconrelay/internal/api"
	"github.com/mreyes-dev/beaconrelay/internal/config"
	"github.com/mreyes-dev/beaconrelay/internal/dispatch"
	"github.com/mreyes-dev/beaconrelay/internal/logging"
	"github.com/mreyes-dev/beaconrelay/internal/metrics"
	"github.com/mreyes-dev/beaconrelay/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	for _, warning := range cfg.Warnings() {
		logging.Warn().Msg(warning)
	}

	logging.Info().
		Str("version", api.Version).
		Bool("ga4", cfg.GA4.Configured()).
		Bool("meta", cfg.Meta.Configured()).
		Bool("tiktok", cfg.TikTok.Configured()).
		Msg("Starting Beacon Relay")
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)
	go trackUptime(time.Now())

	coordinator := dispatch.NewCoordinator(
		dispatch.NewGA4Client(cfg.GA4),
		dispatch.NewMetaClient(cfg.Meta),
		dispatch.NewTikTokClient(cfg.TikTok),
	)

	handler := api.NewHandler(cfg, coordinator)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	supLogger := slog.New(logging.NewSlogHandler())
	sup := supervisor.New(supLogger, supervisor.DefaultConfig())
	sup.Add(supervisor.NewHTTPServerService(server, supervisor.DefaultConfig().ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}

// trackUptime refreshes the uptime gauge for the life of the process.
func trackUptime(start time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metrics.AppUptime.Set(time.Since(start).Seconds())
	}
}

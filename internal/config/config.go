// Beacon Relay - Server-Side Conversion Event Gateway
// Copyright 2026 M. Reyes (mreyes-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mreyes-dev/beaconrelay

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Destination credentials are always optional: a destination with an
// incomplete credential pair is disabled (dispatches to it are reported as
// skipped), never a startup error. This lets one relay deployment serve
// sites that only use a subset of the collectors.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	GA4      GA4Config      `koanf:"ga4"`
	Meta     MetaConfig     `koanf:"meta"`
	TikTok   TikTokConfig   `koanf:"tiktok"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// GA4Config holds the Google Analytics 4 Measurement Protocol credentials.
//
// Environment Variables:
//   - GA4_MEASUREMENT_ID: Data stream measurement ID (G-XXXXXXXXXX)
//   - GA4_API_SECRET: Measurement Protocol API secret from the GA4 admin UI
type GA4Config struct {
	MeasurementID string `koanf:"measurement_id"`
	APISecret     string `koanf:"api_secret"`
}

// Configured reports whether the full credential pair is present.
func (c GA4Config) Configured() bool {
	return c.MeasurementID != "" && c.APISecret != ""
}

// MetaConfig holds the Meta Conversions API credentials.
//
// Environment Variables:
//   - META_PIXEL_ID: Meta pixel (dataset) ID
//   - META_ACCESS_TOKEN: Conversions API access token
//   - META_TEST_EVENT_CODE: Optional test event code for Events Manager debugging
type MetaConfig struct {
	PixelID       string `koanf:"pixel_id"`
	AccessToken   string `koanf:"access_token"`
	TestEventCode string `koanf:"test_event_code"`
}

// Configured reports whether the full credential pair is present.
func (c MetaConfig) Configured() bool {
	return c.PixelID != "" && c.AccessToken != ""
}

// TikTokConfig holds the TikTok Events API credentials.
//
// Environment Variables:
//   - TIKTOK_PIXEL_CODE: TikTok pixel code
//   - TIKTOK_ACCESS_TOKEN: Events API access token
type TikTokConfig struct {
	PixelCode   string `koanf:"pixel_code"`
	AccessToken string `koanf:"access_token"`
}

// Configured reports whether the full credential pair is present.
func (c TikTokConfig) Configured() bool {
	return c.PixelCode != "" && c.AccessToken != ""
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_HOST: Listen host (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds the ingress protection settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Request budget per client IP
//   - DISABLE_RATE_LIMIT: Turn rate limiting off (development only)
//   - CORS_ORIGINS: Comma-separated allowed origins
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work at runtime.
//
// Incomplete destination credential pairs are NOT validation errors - they
// disable the destination. They are surfaced by Warnings() instead so that
// a typo in one of the two variables is visible at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("invalid server timeout %s: must be positive", c.Server.Timeout)
	}
	if c.Security.RateLimitReqs < 1 && !c.Security.RateLimitDisabled {
		return fmt.Errorf("invalid rate limit %d: must be at least 1 request", c.Security.RateLimitReqs)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q: must be json or console", c.Logging.Format)
	}
	return nil
}

// Warnings returns human-readable notes about suspicious but non-fatal
// configuration, currently half-configured destination credential pairs.
func (c *Config) Warnings() []string {
	var warnings []string
	if (c.GA4.MeasurementID != "") != (c.GA4.APISecret != "") {
		warnings = append(warnings, "ga4: only one of GA4_MEASUREMENT_ID / GA4_API_SECRET is set; destination disabled")
	}
	if (c.Meta.PixelID != "") != (c.Meta.AccessToken != "") {
		warnings = append(warnings, "meta: only one of META_PIXEL_ID / META_ACCESS_TOKEN is set; destination disabled")
	}
	if (c.TikTok.PixelCode != "") != (c.TikTok.AccessToken != "") {
		warnings = append(warnings, "tiktok: only one of TIKTOK_PIXEL_CODE / TIKTOK_ACCESS_TOKEN is set; destination disabled")
	}
	return warnings
}

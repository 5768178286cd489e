// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package config loads and validates the service configuration with layered
// sources (defaults, optional YAML file, environment variables).
package config

import (
	"time"
)

// Config is the root configuration for the analytics API.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	BigQuery BigQueryConfig `koanf:"bigquery"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment" validate:"oneof=development production test"`
}

// BigQueryConfig holds the warehouse project/dataset identifiers and the
// service-account credentials used to build the BigQuery client. The
// identifiers are spliced into table paths (table names cannot be bound as
// query parameters), so they are validated against a strict character
// whitelist at load time.
type BigQueryConfig struct {
	ProjectID   string `koanf:"project_id" validate:"required,warehouse_id"`
	DatasetID   string `koanf:"dataset_id" validate:"required,warehouse_id"`
	ClientEmail string `koanf:"client_email" validate:"required,email"`
	PrivateKey  string `koanf:"private_key" validate:"required"`
}

// SecurityConfig holds CORS and rate-limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		BigQuery: BigQueryConfig{
			ProjectID:   "",
			DatasetID:   "",
			ClientEmail: "",
			PrivateKey:  "",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// IsDevelopment reports whether the service runs in development mode.
// Stack traces are attached to error responses only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

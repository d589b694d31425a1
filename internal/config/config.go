// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package config loads the application configuration with layered
// precedence: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/crateseek/internal/backup"
	"github.com/tomtom215/crateseek/internal/discovery"
	"github.com/tomtom215/crateseek/internal/pipeline"
	"github.com/tomtom215/crateseek/internal/selection"
	"github.com/tomtom215/crateseek/internal/simcache"
	"github.com/tomtom215/crateseek/internal/videosource"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig             `koanf:"server"`
	Logging     LoggingConfig            `koanf:"logging"`
	Cache       simcache.Config          `koanf:"cache"`
	Discovery   discovery.Config         `koanf:"discovery"`
	External    discovery.ExternalConfig `koanf:"external"`
	Selection   selection.Config         `koanf:"selection"`
	Generation  pipeline.Config          `koanf:"generation"`
	VideoSource videosource.Config       `koanf:"video_source"`
	Backup      backup.Config            `koanf:"backup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds log settings, applied at startup.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8580,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Cache:       simcache.DefaultConfig(),
		Discovery:   discovery.DefaultConfig(),
		External:    discovery.DefaultExternalConfig(),
		Selection:   selection.DefaultConfig(),
		Generation:  pipeline.DefaultConfig(),
		VideoSource: videosource.DefaultConfig(),
		Backup:      backup.DefaultConfig(),
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.RateLimitReqs <= 0 || c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("invalid rate limit settings")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	// The external similarity source is optional; validate only when
	// a base URL enables it.
	if c.External.BaseURL != "" {
		if err := c.External.Validate(); err != nil {
			return fmt.Errorf("external: %w", err)
		}
	}
	if err := c.Selection.Validate(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.VideoSource.Validate(); err != nil {
		return fmt.Errorf("video_source: %w", err)
	}
	if err := c.Backup.Validate(); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

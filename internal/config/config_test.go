// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "bad cache config", mutate: func(c *Config) { c.Cache.MaxEntries = 0 }},
		{name: "bad threshold preset", mutate: func(c *Config) { c.Discovery.Threshold = "exact" }},
		{name: "bad generation mode", mutate: func(c *Config) { c.Generation.Mode = "chaos" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "CRATESEEK_SERVER__PORT", want: "server.port"},
		{in: "CRATESEEK_CACHE__MAX_ENTRIES", want: "cache.max_entries"},
		{in: "CRATESEEK_EXTERNAL__API_KEY", want: "external.api_key"},
		{in: "CRATESEEK_GENERATION__TARGET_CLIP_COUNT", want: "generation.target_clip_count"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Load mutates process env and the working-directory search, so the
// layering tests run unparallelized with explicit env setup.
func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
cache:
  max_entries: 50
generation:
  target_clip_count: 30
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CRATESEEK_SERVER__PORT", "9100")
	t.Setenv("CRATESEEK_CACHE__SWEEP_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Env beats file.
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	// File beats defaults.
	if cfg.Cache.MaxEntries != 50 {
		t.Errorf("Cache.MaxEntries = %d, want file value 50", cfg.Cache.MaxEntries)
	}
	if cfg.Generation.TargetClipCount != 30 {
		t.Errorf("Generation.TargetClipCount = %d, want file value 30", cfg.Generation.TargetClipCount)
	}
	if cfg.Cache.SweepInterval != 30*time.Minute {
		t.Errorf("Cache.SweepInterval = %v, want env value 30m", cfg.Cache.SweepInterval)
	}
	// Defaults survive for untouched fields.
	if cfg.Discovery.Threshold != "moderate" {
		t.Errorf("Discovery.Threshold = %q, want default moderate", cfg.Discovery.Threshold)
	}
}

func TestLoadSliceFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CRATESEEK_DISCOVERY__ORDER", "curated, heuristic ,fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"curated", "heuristic", "fallback"}
	if len(cfg.Discovery.Order) != len(want) {
		t.Fatalf("Discovery.Order = %v, want %v", cfg.Discovery.Order, want)
	}
	for i := range want {
		if cfg.Discovery.Order[i] != want[i] {
			t.Errorf("Order[%d] = %q, want %q", i, cfg.Discovery.Order[i], want[i])
		}
	}
}

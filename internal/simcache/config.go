// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"fmt"
	"time"
)

// Config holds similarity-cache configuration.
//
// The tier thresholds and TTLs are empirically chosen heuristics kept
// for behavioral parity with earlier releases; they are exposed here as
// tunables rather than treated as derived constants.
type Config struct {
	// MaxEntries is the capacity cap that triggers eviction.
	// Default: 1000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`

	// HighTTL is the time-to-live for high-popularity entries.
	// Default: 30 days.
	HighTTL time.Duration `json:"high_ttl" koanf:"high_ttl"`

	// MediumTTL is the time-to-live for medium-popularity entries.
	// Default: 14 days.
	MediumTTL time.Duration `json:"medium_ttl" koanf:"medium_ttl"`

	// LowTTL is the time-to-live for low-popularity entries.
	// Default: 7 days.
	LowTTL time.Duration `json:"low_ttl" koanf:"low_ttl"`

	// SweepInterval is how often the background sweep removes expired
	// entries. Default: 1 hour.
	SweepInterval time.Duration `json:"sweep_interval" koanf:"sweep_interval"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxEntries:    1000,
		HighTTL:       30 * 24 * time.Hour,
		MediumTTL:     14 * 24 * time.Hour,
		LowTTL:        7 * 24 * time.Hour,
		SweepInterval: time.Hour,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max_entries must be positive, got %d", c.MaxEntries)
	}
	if c.HighTTL <= 0 || c.MediumTTL <= 0 || c.LowTTL <= 0 {
		return fmt.Errorf("all tier TTLs must be positive")
	}
	if c.MediumTTL > c.HighTTL {
		return fmt.Errorf("medium_ttl (%s) must not exceed high_ttl (%s)", c.MediumTTL, c.HighTTL)
	}
	if c.LowTTL > c.MediumTTL {
		return fmt.Errorf("low_ttl (%s) must not exceed medium_ttl (%s)", c.LowTTL, c.MediumTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}

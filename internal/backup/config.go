// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package backup

import (
	"fmt"
	"time"
)

// Config controls snapshot backup behavior.
type Config struct {
	// Enabled toggles the scheduled backup service.
	Enabled bool `koanf:"enabled"`

	// Dir is the directory backup files are written to. It is created
	// on manager construction if missing.
	Dir string `koanf:"dir"`

	// Interval is how often a scheduled backup runs.
	Interval time.Duration `koanf:"interval"`

	// MaxBackups is the number of newest backup files retention keeps.
	MaxBackups int `koanf:"max_backups"`

	// MaxAgeDays drops backups older than this many days, regardless
	// of count. Zero disables the age rule.
	MaxAgeDays int `koanf:"max_age_days"`
}

// DefaultConfig returns the backup defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Dir:        "data/backups",
		Interval:   6 * time.Hour,
		MaxBackups: 10,
		MaxAgeDays: 30,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("backup dir must not be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("backup interval must be positive, got %v", c.Interval)
	}
	if c.MaxBackups <= 0 {
		return fmt.Errorf("max_backups must be positive, got %d", c.MaxBackups)
	}
	if c.MaxAgeDays < 0 {
		return fmt.Errorf("max_age_days must be non-negative, got %d", c.MaxAgeDays)
	}
	return nil
}

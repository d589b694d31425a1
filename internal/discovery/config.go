// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"fmt"
)

// Threshold presets for similarity filtering.
const (
	ThresholdLoose    = "loose"    // 0.1
	ThresholdModerate = "moderate" // 0.2
	ThresholdStrict   = "strict"   // 0.4
)

// thresholdValue maps a preset name to its similarity floor.
func thresholdValue(preset string) (float64, error) {
	switch preset {
	case ThresholdLoose:
		return 0.1, nil
	case ThresholdModerate:
		return 0.2, nil
	case ThresholdStrict:
		return 0.4, nil
	default:
		return 0, fmt.Errorf("unknown threshold preset %q", preset)
	}
}

// Config holds orchestrator configuration.
type Config struct {
	// MaxResults is the default cap on returned records. Default: 20.
	MaxResults int `json:"max_results" koanf:"max_results"`

	// Threshold is the similarity-threshold preset
	// (loose, moderate, strict). Default: moderate.
	Threshold string `json:"threshold" koanf:"threshold"`

	// Order is the source preference order.
	// Default: external, curated, heuristic, fallback.
	Order []string `json:"order" koanf:"order"`

	// Enabled flags each source on or off. A source missing from the
	// map defaults to enabled.
	Enabled map[string]bool `json:"enabled" koanf:"enabled"`
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults: 20,
		Threshold:  ThresholdModerate,
		Order:      []string{SourceExternal, SourceCurated, SourceHeuristic, SourceFallback},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if _, err := thresholdValue(c.Threshold); err != nil {
		return err
	}
	if len(c.Order) == 0 {
		return fmt.Errorf("source preference order is empty")
	}
	seen := make(map[string]struct{}, len(c.Order))
	for _, name := range c.Order {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("source %q appears twice in preference order", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// sourceEnabled reports whether a source is enabled in this config.
func (c Config) sourceEnabled(name string) bool {
	if c.Enabled == nil {
		return true
	}
	enabled, ok := c.Enabled[name]
	if !ok {
		return true
	}
	return enabled
}

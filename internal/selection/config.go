// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package selection

import "fmt"

// Config controls the selector's target size, weighting, and diversity
// constraints.
type Config struct {
	// MaxArtists is the target size of the final selection.
	MaxArtists int `koanf:"max_artists"`

	// SimilarityWeight sharpens the preference for high-similarity
	// candidates. The normalized similarity is raised to the power
	// 2*SimilarityWeight, so values above 1 concentrate the draw on
	// the best matches and values below 1 flatten it.
	SimilarityWeight float64 `koanf:"similarity_weight"`

	// DiversityWeight scales the diversity bonus added to each
	// candidate's weight. Zero disables the bonus entirely.
	DiversityWeight float64 `koanf:"diversity_weight"`

	// GenreDiversityEnabled enforces MaxPerGenre as a hard constraint
	// and feeds genre counts into the diversity bonus.
	GenreDiversityEnabled bool `koanf:"genre_diversity_enabled"`

	// EraDiversityEnabled enforces MaxPerEra as a hard constraint and
	// feeds era counts into the diversity bonus.
	EraDiversityEnabled bool `koanf:"era_diversity_enabled"`

	// MaxPerGenre caps how many selected artists may share a primary
	// genre when genre diversity is enabled.
	MaxPerGenre int `koanf:"max_per_genre"`

	// MaxPerEra caps how many selected artists may share an era bucket
	// when era diversity is enabled.
	MaxPerEra int `koanf:"max_per_era"`

	// PreventDuplicates rejects candidates whose name matches an
	// already-selected artist case-insensitively.
	PreventDuplicates bool `koanf:"prevent_duplicates"`
}

// DefaultConfig returns the selection defaults.
func DefaultConfig() Config {
	return Config{
		MaxArtists:            10,
		SimilarityWeight:      1.0,
		DiversityWeight:       1.0,
		GenreDiversityEnabled: true,
		EraDiversityEnabled:   true,
		MaxPerGenre:           3,
		MaxPerEra:             5,
		PreventDuplicates:     true,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.MaxArtists <= 0 {
		return fmt.Errorf("max_artists must be positive, got %d", c.MaxArtists)
	}
	if c.SimilarityWeight < 0 {
		return fmt.Errorf("similarity_weight must be non-negative, got %v", c.SimilarityWeight)
	}
	if c.DiversityWeight < 0 {
		return fmt.Errorf("diversity_weight must be non-negative, got %v", c.DiversityWeight)
	}
	if c.GenreDiversityEnabled && c.MaxPerGenre <= 0 {
		return fmt.Errorf("max_per_genre must be positive when genre diversity is enabled, got %d", c.MaxPerGenre)
	}
	if c.EraDiversityEnabled && c.MaxPerEra <= 0 {
		return fmt.Errorf("max_per_era must be positive when era diversity is enabled, got %d", c.MaxPerEra)
	}
	return nil
}

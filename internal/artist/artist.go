// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package artist defines the shared domain types flowing between the
// discovery, caching, selection, and clip-assembly layers.
//
// The package is a dependency leaf: it imports nothing from the rest of
// the module so that every other internal package can use these types
// without creating import cycles.
package artist

import (
	"strings"
)

// SimilarArtist is a single similar-artist record as reported by a
// discovery source. Similarity is always clamped to [0, 1] at the point
// the record is constructed; name comparisons for de-duplication are
// case-insensitive.
type SimilarArtist struct {
	// Name is the artist name as reported by the source.
	Name string `json:"name"`

	// Similarity is how related this artist is to the seed artist (0-1).
	Similarity float64 `json:"similarity"`

	// Genres is a slice of genre names, primary genre first.
	Genres []string `json:"genres,omitempty"`

	// Tags is a slice of free-form tags from the source.
	Tags []string `json:"tags,omitempty"`

	// SourceID identifies the discovery source that produced the record.
	SourceID string `json:"source_id,omitempty"`

	// Popularity is an optional source-reported popularity metric.
	Popularity float64 `json:"popularity,omitempty"`
}

// PrimaryGenre returns the first genre, or empty string if none.
func (a SimilarArtist) PrimaryGenre() string {
	if len(a.Genres) == 0 {
		return ""
	}
	return a.Genres[0]
}

// ClampSimilarity clamps a raw similarity value into the [0, 1] range.
func ClampSimilarity(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// NormalizeName canonicalizes an artist name for use as a lookup key:
// lowercase, trimmed, with internal whitespace runs collapsed to a
// single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// SameName reports whether two artist names are equal under the
// case-insensitive comparison used for de-duplication.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// DedupeByName removes records whose normalized name was already seen,
// keeping the first occurrence. Order is preserved.
func DedupeByName(records []SimilarArtist) []SimilarArtist {
	seen := make(map[string]struct{}, len(records))
	out := make([]SimilarArtist, 0, len(records))

	for _, r := range records {
		key := NormalizeName(r.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}

// MeanSimilarity returns the arithmetic mean similarity of the records,
// or 0 for an empty slice.
func MeanSimilarity(records []SimilarArtist) float64 {
	if len(records) == 0 {
		return 0
	}

	sum := 0.0
	for _, r := range records {
		sum += r.Similarity
	}
	return sum / float64(len(records))
}

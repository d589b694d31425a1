// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"

	"github.com/tomtom215/crateseek/internal/artist"
)

// Source names used in preference orders, results, and metrics labels.
const (
	SourceExternal  = "external"
	SourceCurated   = "curated"
	SourceHeuristic = "heuristic"
	SourceFallback  = "fallback"
	SourceCache     = "cache"
)

// Confidence labels how trustworthy a discovery result is, derived
// from which source satisfied the request and how many records
// survived threshold filtering.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// confidenceFor derives the confidence level from the chosen source
// and the filtered record count.
func confidenceFor(source string, count int) Confidence {
	switch {
	case source == SourceExternal && count >= 10:
		return ConfidenceHigh
	case source == SourceCurated && count >= 8:
		return ConfidenceHigh
	case source == SourceHeuristic && count >= 6:
		return ConfidenceMedium
	case count >= 5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Source is a single similar-artist discovery strategy.
type Source interface {
	// Name returns the source identifier.
	Name() string

	// FindSimilar returns raw similar-artist candidates for the seed
	// artist, at most limit records. An empty slice with nil error
	// means the source has nothing for this artist.
	FindSimilar(ctx context.Context, seed string, limit int) ([]artist.SimilarArtist, error)
}

// Request is a single discovery request.
type Request struct {
	// Artist is the seed artist name.
	Artist string `json:"artist" validate:"required"`

	// MaxResults caps the returned record count. Zero uses the
	// orchestrator default.
	MaxResults int `json:"max_results,omitempty" validate:"gte=0,lte=200"`

	// Threshold optionally overrides the configured threshold preset
	// (loose, moderate, strict).
	Threshold string `json:"threshold,omitempty" validate:"omitempty,oneof=loose moderate strict"`
}

// Result is a completed discovery response. It is produced fresh per
// call and never persisted; the cache stores only the records.
type Result struct {
	// Artist is the seed artist the discovery ran for.
	Artist string `json:"artist"`

	// TotalFound is the number of records after filtering.
	TotalFound int `json:"total_found"`

	// PerSourceCounts maps each invoked source to its raw record count.
	PerSourceCounts map[string]int `json:"per_source_counts"`

	// Records is the filtered similar-artist list.
	Records []artist.SimilarArtist `json:"records"`

	// ChosenSource is the source whose results were returned.
	ChosenSource string `json:"chosen_source"`

	// Confidence labels the result quality.
	Confidence Confidence `json:"confidence"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`
}

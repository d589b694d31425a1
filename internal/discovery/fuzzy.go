// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"
	"strings"

	"github.com/tomtom215/crateseek/internal/artist"
)

// Fuzzy matching constants. A match below minMatchQuality is treated
// as no match; borrowed similarities are rescaled by the match
// quality, capped at maxBorrowFactor so a borrowed list never looks
// stronger than a direct curated hit.
const (
	minMatchQuality = 0.4
	maxBorrowFactor = 0.8
)

// FallbackSource is the last-resort discovery tier: it fuzzy-matches
// the seed artist's name against the curated database's artist names,
// borrows the best match's similar-artist list, and rescales each
// borrowed record's similarity by the match quality.
type FallbackSource struct {
	curated *CuratedSource
}

// NewFallbackSource creates the fallback source over a curated table.
func NewFallbackSource(curated *CuratedSource) *FallbackSource {
	return &FallbackSource{curated: curated}
}

// Name returns the source identifier.
func (s *FallbackSource) Name() string {
	return SourceFallback
}

// FindSimilar returns the borrowed, rescaled similar list for the best
// fuzzy match, or nothing if no curated name matches well enough.
func (s *FallbackSource) FindSimilar(_ context.Context, seed string, limit int) ([]artist.SimilarArtist, error) {
	match, quality := s.BestMatch(seed)
	if quality < minMatchQuality {
		return nil, nil
	}

	borrowed, ok := s.curated.Lookup(match)
	if !ok {
		return nil, nil
	}

	factor := quality
	if factor > maxBorrowFactor {
		factor = maxBorrowFactor
	}

	out := make([]artist.SimilarArtist, 0, len(borrowed))
	for _, r := range borrowed {
		if artist.SameName(r.Name, seed) {
			continue
		}
		r.Similarity = artist.ClampSimilarity(r.Similarity * factor)
		r.SourceID = SourceFallback
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// BestMatch returns the curated artist name (normalized) closest to
// the seed, with its match quality in [0, 1].
func (s *FallbackSource) BestMatch(seed string) (string, float64) {
	normalized := artist.NormalizeName(seed)
	if normalized == "" {
		return "", 0
	}

	best := ""
	bestQuality := 0.0
	for _, name := range s.curated.Names() {
		q := nameMatchQuality(normalized, name)
		if q > bestQuality {
			best = name
			bestQuality = q
		}
	}
	return best, bestQuality
}

// nameMatchQuality scores how well two normalized names match:
// exact match is 1, containment scores by length ratio, otherwise a
// light token-overlap score. The result is in [0, 1].
func nameMatchQuality(a, b string) float64 {
	if a == b {
		return 1
	}

	// Substring containment, scaled by how much of the longer name
	// the shorter one covers.
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 3 && strings.Contains(longer, shorter) {
		return 0.5 + 0.4*float64(len(shorter))/float64(len(longer))
	}

	return tokenOverlap(a, b)
}

// tokenOverlap is the Jaccard overlap of the names' word sets, scaled
// so that pure token overlap cannot outrank containment.
func tokenOverlap(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}

	intersection := 0
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		if _, dup := setB[t]; dup {
			continue
		}
		setB[t] = struct{}{}
		if _, ok := setA[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return 0.7 * float64(intersection) / float64(union)
}

var _ Source = (*FallbackSource)(nil)

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"

	"github.com/tomtom215/crateseek/internal/artist"
)

// Curated similarity decay: the bucket's first neighbor scores
// curatedBaseSimilarity, each further rank loses curatedDecay, never
// dropping below curatedFloor.
const (
	curatedBaseSimilarity = 0.9
	curatedDecay          = 0.06
	curatedFloor          = 0.3
)

// CuratedSource answers discovery requests by exact-key lookup into
// the built-in genre/artist table. It never fails and never makes
// network calls.
type CuratedSource struct {
	// table maps normalized artist names to their similar lists,
	// built once at construction.
	table map[string][]artist.SimilarArtist
}

// NewCuratedSource builds the curated source from the built-in table.
func NewCuratedSource() *CuratedSource {
	table := make(map[string][]artist.SimilarArtist)

	for _, bucket := range curatedBuckets {
		for i, name := range bucket.artists {
			similar := make([]artist.SimilarArtist, 0, len(bucket.artists)-1)
			rank := 0
			for j, other := range bucket.artists {
				if j == i {
					continue
				}
				sim := curatedBaseSimilarity - curatedDecay*float64(rank)
				if sim < curatedFloor {
					sim = curatedFloor
				}
				similar = append(similar, artist.SimilarArtist{
					Name:       other,
					Similarity: artist.ClampSimilarity(sim),
					Genres:     []string{bucket.genre},
					Tags:       bucket.tags,
					SourceID:   SourceCurated,
				})
				rank++
			}
			table[artist.NormalizeName(name)] = similar
		}
	}

	return &CuratedSource{table: table}
}

// Name returns the source identifier.
func (s *CuratedSource) Name() string {
	return SourceCurated
}

// FindSimilar returns the curated similar list for the seed artist,
// or nothing if the artist is not in the table.
func (s *CuratedSource) FindSimilar(_ context.Context, seed string, limit int) ([]artist.SimilarArtist, error) {
	similar, ok := s.table[artist.NormalizeName(seed)]
	if !ok {
		return nil, nil
	}

	out := append([]artist.SimilarArtist(nil), similar...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Names returns every artist name in the curated table, used by the
// fallback source for fuzzy matching.
func (s *CuratedSource) Names() []string {
	names := make([]string, 0, len(s.table))
	for name := range s.table {
		names = append(names, name)
	}
	return names
}

// Lookup exposes the table for a normalized name, used by the
// fallback source to borrow a matched artist's similar list.
func (s *CuratedSource) Lookup(normalized string) ([]artist.SimilarArtist, bool) {
	similar, ok := s.table[normalized]
	if !ok {
		return nil, false
	}
	return append([]artist.SimilarArtist(nil), similar...), true
}

var _ Source = (*CuratedSource)(nil)

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

// Heuristic similarity decay by rank within the detected genre bucket.
const (
	heuristicBaseSimilarity = 0.65
	heuristicDecay          = 0.05
	heuristicFloor          = 0.2
)

// HeuristicSource guesses a genre bucket from name-pattern keywords
// and returns that bucket's artists with rank-decayed similarity. It
// is a weaker tier than curated lookup: the guess may be wrong, so the
// scores stay deliberately modest.
type HeuristicSource struct{}

// NewHeuristicSource creates the heuristic source.
func NewHeuristicSource() *HeuristicSource {
	return &HeuristicSource{}
}

// Name returns the source identifier.
func (s *HeuristicSource) Name() string {
	return SourceHeuristic
}

// FindSimilar detects a genre from the seed artist's name and returns
// the genre bucket's artists, excluding the seed itself.
func (s *HeuristicSource) FindSimilar(_ context.Context, seed string, limit int) ([]artist.SimilarArtist, error) {
	genre, ok := detectGenre(seed)
	if !ok {
		return nil, nil
	}

	bucket := bucketByGenre(genre)
	if bucket == nil {
		return nil, nil
	}

	out := make([]artist.SimilarArtist, 0, len(bucket.artists))
	for rank, name := range bucket.artists {
		if artist.SameName(name, seed) {
			continue
		}
		sim := heuristicBaseSimilarity - heuristicDecay*float64(rank)
		if sim < heuristicFloor {
			sim = heuristicFloor
		}
		out = append(out, artist.SimilarArtist{
			Name:       name,
			Similarity: artist.ClampSimilarity(sim),
			Genres:     []string{bucket.genre},
			Tags:       bucket.tags,
			SourceID:   SourceHeuristic,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// detectGenre scans the seed name for known keyword patterns. The
// first matching pattern wins; patterns are ordered most to least
// specific.
func detectGenre(seed string) (string, bool) {
	name := strings.ToLower(seed)
	for _, p := range heuristicPatterns {
		if strings.Contains(name, p.keyword) {
			return p.genre, true
		}
	}
	return "", false
}

var _ Source = (*HeuristicSource)(nil)

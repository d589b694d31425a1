// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"github.com/tomtom215/crateseek/internal/artist"
)

// Query priorities, 1 (lowest) to 10 (highest).
const (
	priorityBase        = 10
	priorityOfficial    = 9
	priorityMusicVideo  = 8
	prioritySingleExtra = 7
	priorityFallback    = 2

	similarPriorityMax = 7
	similarPriorityMin = 3
)

// buildStrategy emits the prioritized query list for a run: primary
// queries around the seed, low-priority generic fallbacks, and one
// query per discovered similar artist with priority decaying by rank.
func buildStrategy(cfg Config, seed string, similar []artist.SimilarArtist) []SearchQuery {
	queries := make([]SearchQuery, 0, 6+len(similar))

	add := func(text, attributed string, priority int) {
		queries = append(queries, SearchQuery{
			Text:             text,
			AttributedArtist: attributed,
			Priority:         priority,
			MaxResults:       cfg.MaxResultsPerQuery,
		})
	}

	switch cfg.SearchType {
	case SearchTypeKeyword:
		add(seed, "", priorityBase)
		add(seed+" music", "", priorityMusicVideo)
	default:
		add(seed, seed, priorityBase)
		add(seed+" official", seed, priorityOfficial)
		add(seed+" music video", seed, priorityMusicVideo)
		if cfg.Mode == ModeSingleArtist {
			add(seed+" hits", seed, prioritySingleExtra)
			add(seed+" best songs", seed, prioritySingleExtra)
		}
	}

	add(seed+" full album", "", priorityFallback)
	add(seed+" playlist", "", priorityFallback)

	for i, a := range similar {
		p := similarPriorityMax - i
		if p < similarPriorityMin {
			p = similarPriorityMin
		}
		add(a.Name+" music", a.Name, p)
	}

	return queries
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"math"
	"sort"
	"strings"
)

// Relevance score weights. Empirically chosen and tunable.
const (
	weightTitleOverlap   = 0.4
	weightChannelOverlap = 0.2
	weightOfficialBonus  = 0.1
	weightViewBonus      = 0.1
	weightDurationBonus  = 0.1
	variantPenalty       = 0.1

	// Duration sweet spot, 3 to 6 minutes.
	sweetSpotMinSeconds = 180
	sweetSpotMaxSeconds = 360

	// viewLogCeiling normalizes the log-scaled view bonus; a video
	// with 10^8 views earns the full bonus.
	viewLogCeiling = 8.0
)

var officialMarkers = []string{"official", "vevo", "- topic"}

var variantMarkers = []string{"remix", "live", "cover", "acoustic"}

// scoreRelevance ranks a video candidate against the query that found
// it. The result is clamped to [0, 1].
func scoreRelevance(v VideoCandidate, q SearchQuery) float64 {
	score := weightTitleOverlap * termOverlap(q.Text, v.Title)
	score += weightChannelOverlap * termOverlap(q.Text, v.ChannelName)

	if isOfficial(v) {
		score += weightOfficialBonus
	}
	if v.ViewCount > 0 {
		bonus := math.Log10(float64(v.ViewCount)) / viewLogCeiling
		if bonus > 1 {
			bonus = 1
		}
		score += weightViewBonus * bonus
	}
	if v.DurationSeconds >= sweetSpotMinSeconds && v.DurationSeconds <= sweetSpotMaxSeconds {
		score += weightDurationBonus
	}
	if isVariant(v) {
		score -= variantPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// termOverlap returns the fraction of the query's terms that appear as
// substrings of the text, case-insensitively.
func termOverlap(query, text string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	haystack := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func isOfficial(v VideoCandidate) bool {
	if v.IsOfficial {
		return true
	}
	title := strings.ToLower(v.Title)
	channel := strings.ToLower(v.ChannelName)
	for _, m := range officialMarkers {
		if strings.Contains(title, m) || strings.Contains(channel, m) {
			return true
		}
	}
	return false
}

func isVariant(v VideoCandidate) bool {
	if v.IsRemix {
		return true
	}
	title := strings.ToLower(v.Title)
	for _, m := range variantMarkers {
		if strings.Contains(title, m) {
			return true
		}
	}
	return false
}

// filterAndRank de-duplicates candidates by video id, drops videos
// outside the configured duration window (candidates with an unknown
// duration pass through and receive a default at clip time), and sorts
// the survivors by relevance descending.
func filterAndRank(cands []VideoCandidate, cfg Config) []VideoCandidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]VideoCandidate, 0, len(cands))

	for _, v := range cands {
		if v.ID == "" {
			continue
		}
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}

		if v.DurationSeconds > 0 &&
			(v.DurationSeconds < cfg.MinVideoDurationSeconds || v.DurationSeconds > cfg.MaxVideoDurationSeconds) {
			continue
		}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

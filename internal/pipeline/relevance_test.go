// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"math"
	"testing"
)

func TestScoreRelevance(t *testing.T) {
	t.Parallel()

	query := SearchQuery{Text: "daft punk", AttributedArtist: "Daft Punk"}

	tests := []struct {
		name  string
		video VideoCandidate
		want  float64
	}{
		{
			name: "full title and channel match in sweet spot",
			video: VideoCandidate{
				Title:           "Daft Punk - Around the World",
				ChannelName:     "Daft Punk",
				DurationSeconds: 240,
			},
			want: 0.4 + 0.2 + 0.1,
		},
		{
			name: "official marker adds bonus",
			video: VideoCandidate{
				Title:           "Daft Punk - One More Time (Official Video)",
				ChannelName:     "Daft Punk",
				DurationSeconds: 240,
			},
			want: 0.4 + 0.2 + 0.1 + 0.1,
		},
		{
			name: "remix penalized",
			video: VideoCandidate{
				Title:           "Daft Punk - Something About Us (Remix)",
				ChannelName:     "Daft Punk",
				DurationSeconds: 240,
			},
			want: 0.4 + 0.2 + 0.1 - 0.1,
		},
		{
			name: "partial title match",
			video: VideoCandidate{
				Title:       "Punk Rock Compilation",
				ChannelName: "Some Channel",
			},
			want: 0.4 * 0.5,
		},
		{
			name: "view bonus log scaled",
			video: VideoCandidate{
				Title:       "daft punk essentials",
				ChannelName: "daft punk fan",
				ViewCount:   100_000_000,
			},
			want: 0.4 + 0.2 + 0.1,
		},
		{
			name:  "no match scores zero",
			video: VideoCandidate{Title: "Cooking Tutorial", ChannelName: "Kitchen"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := scoreRelevance(tt.video, query)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreRelevance() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("scoreRelevance() = %v, out of [0, 1]", got)
			}
		})
	}
}

func TestScoreRelevanceClamped(t *testing.T) {
	t.Parallel()

	// Every bonus at once must still clamp to 1.
	v := VideoCandidate{
		Title:           "daft punk official",
		ChannelName:     "daft punk vevo",
		DurationSeconds: 200,
		ViewCount:       1_000_000_000,
		IsOfficial:      true,
	}
	if got := scoreRelevance(v, SearchQuery{Text: "daft punk"}); got > 1 {
		t.Errorf("scoreRelevance() = %v, want <= 1", got)
	}

	// A pure penalty must clamp to 0.
	penalized := VideoCandidate{Title: "live cover remix", IsRemix: true}
	if got := scoreRelevance(penalized, SearchQuery{Text: "unrelated"}); got != 0 {
		t.Errorf("scoreRelevance() = %v, want 0", got)
	}
}

func TestFilterAndRank(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	in := []VideoCandidate{
		{ID: "a", DurationSeconds: 300, RelevanceScore: 0.5},
		{ID: "a", DurationSeconds: 300, RelevanceScore: 0.9}, // duplicate id
		{ID: "b", DurationSeconds: 30, RelevanceScore: 0.9},  // too short
		{ID: "c", DurationSeconds: 3000, RelevanceScore: 0.9}, // too long
		{ID: "d", DurationSeconds: 0, RelevanceScore: 0.7},    // unknown duration passes
		{ID: "", DurationSeconds: 300, RelevanceScore: 0.9},   // missing id
		{ID: "e", DurationSeconds: 200, RelevanceScore: 0.8},
	}

	got := filterAndRank(in, cfg)

	wantIDs := []string{"e", "d", "a"}
	if len(got) != len(wantIDs) {
		t.Fatalf("filterAndRank() kept %d candidates, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("ranked[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestBuildStrategy(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	t.Run("artist mode primaries", func(t *testing.T) {
		t.Parallel()
		queries := buildStrategy(cfg, "Daft Punk", nil)

		wantTexts := []string{
			"Daft Punk",
			"Daft Punk official",
			"Daft Punk music video",
			"Daft Punk full album",
			"Daft Punk playlist",
		}
		if len(queries) != len(wantTexts) {
			t.Fatalf("got %d queries, want %d: %+v", len(queries), len(wantTexts), queries)
		}
		for i, want := range wantTexts {
			if queries[i].Text != want {
				t.Errorf("queries[%d].Text = %q, want %q", i, queries[i].Text, want)
			}
		}
		if queries[0].Priority != priorityBase {
			t.Errorf("base query priority = %d, want %d", queries[0].Priority, priorityBase)
		}
		if queries[3].Priority != priorityFallback || queries[4].Priority != priorityFallback {
			t.Error("fallback queries must carry the low fallback priority")
		}
	})

	t.Run("single-artist mode adds variants", func(t *testing.T) {
		t.Parallel()
		single := cfg
		single.Mode = ModeSingleArtist
		queries := buildStrategy(single, "Queen", nil)

		found := map[string]bool{}
		for _, q := range queries {
			found[q.Text] = true
		}
		if !found["Queen hits"] || !found["Queen best songs"] {
			t.Errorf("single-artist strategy missing hits/best songs variants: %+v", queries)
		}
	})

	t.Run("keyword mode skips artist variants", func(t *testing.T) {
		t.Parallel()
		kw := cfg
		kw.SearchType = SearchTypeKeyword
		queries := buildStrategy(kw, "synthwave", nil)

		for _, q := range queries {
			if q.Text == "synthwave official" {
				t.Error("keyword strategy must not emit artist-style official query")
			}
			if q.AttributedArtist != "" {
				t.Errorf("keyword query %q attributes artist %q", q.Text, q.AttributedArtist)
			}
		}
	})

	t.Run("similar artists appended with decaying priority", func(t *testing.T) {
		t.Parallel()
		similar := makeSimilar("A", "B", "C", "D", "E", "F")
		queries := buildStrategy(cfg, "Seed", similar)

		tail := queries[len(queries)-len(similar):]
		for i, q := range tail {
			if q.AttributedArtist != similar[i].Name {
				t.Errorf("similar query %d attributed to %q, want %q", i, q.AttributedArtist, similar[i].Name)
			}
			if i > 0 && q.Priority > tail[i-1].Priority {
				t.Errorf("similar query priority increased at rank %d", i)
			}
			if q.Priority < similarPriorityMin {
				t.Errorf("similar query priority %d below floor", q.Priority)
			}
		}
	})
}

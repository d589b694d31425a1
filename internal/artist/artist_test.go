// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package artist

import (
	"math"
	"testing"
)

func TestClampSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "negative clamps to zero", in: -0.5, want: 0},
		{name: "above one clamps to one", in: 1.7, want: 1},
		{name: "in range unchanged", in: 0.42, want: 0.42},
		{name: "zero unchanged", in: 0, want: 0},
		{name: "one unchanged", in: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampSimilarity(tt.in); got != tt.want {
				t.Errorf("ClampSimilarity(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Daft Punk", want: "daft punk"},
		{name: "trims", in: "  Radiohead  ", want: "radiohead"},
		{name: "collapses internal whitespace", in: "The  Rolling\tStones", want: "the rolling stones"},
		{name: "empty stays empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	t.Parallel()

	if !SameName("Daft Punk", "daft  punk") {
		t.Error("SameName() = false, want true for case/space variants")
	}
	if SameName("Daft Punk", "Justice") {
		t.Error("SameName() = true, want false for distinct artists")
	}
}

func TestDedupeByName(t *testing.T) {
	t.Parallel()

	in := []SimilarArtist{
		{Name: "Air", Similarity: 0.9},
		{Name: "air", Similarity: 0.5},
		{Name: "Justice", Similarity: 0.8},
		{Name: "AIR", Similarity: 0.1},
	}

	got := DedupeByName(in)

	if len(got) != 2 {
		t.Fatalf("DedupeByName() returned %d records, want 2", len(got))
	}
	if got[0].Name != "Air" || got[0].Similarity != 0.9 {
		t.Errorf("first occurrence not kept: got %+v", got[0])
	}
	if got[1].Name != "Justice" {
		t.Errorf("order not preserved: got %+v", got[1])
	}
}

func TestMeanSimilarity(t *testing.T) {
	t.Parallel()

	if got := MeanSimilarity(nil); got != 0 {
		t.Errorf("MeanSimilarity(nil) = %v, want 0", got)
	}

	records := []SimilarArtist{
		{Similarity: 0.2},
		{Similarity: 0.4},
		{Similarity: 0.9},
	}
	want := 0.5
	if got := MeanSimilarity(records); math.Abs(got-want) > 1e-9 {
		t.Errorf("MeanSimilarity() = %v, want %v", got, want)
	}
}

func TestPrimaryGenre(t *testing.T) {
	t.Parallel()

	a := SimilarArtist{Genres: []string{"electronic", "house"}}
	if got := a.PrimaryGenre(); got != "electronic" {
		t.Errorf("PrimaryGenre() = %q, want %q", got, "electronic")
	}

	var empty SimilarArtist
	if got := empty.PrimaryGenre(); got != "" {
		t.Errorf("PrimaryGenre() on empty = %q, want empty", got)
	}
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package selection

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
)

// Rejection reasons reported alongside the selection result.
const (
	ReasonDuplicate = "duplicate"
	ReasonGenreCap  = "genre_cap"
	ReasonEraCap    = "era_cap"
)

// Diversity bonus tuning. The bonus starts at 1.0 and is multiplied
// per bucket the candidate belongs to: boosted while the bucket is
// under half its cap, damped once past half, and cut hard at the cap.
// The floor keeps every candidate drawable in principle. These values
// are empirically chosen and tunable, not derived from a model.
const (
	minDiversityBonus = 0.1
	underHalfBoost    = 1.5
	overHalfDamp      = 0.7
	atCapPenalty      = 0.1
)

// Rejection pairs a candidate that failed a hard constraint with the
// reason it was rejected.
type Rejection struct {
	Candidate artist.SimilarArtist `json:"candidate"`
	Reason    string               `json:"reason"`
}

// Stats summarizes a completed selection.
type Stats struct {
	// GenreDistribution counts selected artists per primary genre.
	GenreDistribution map[string]int `json:"genre_distribution"`

	// EraDistribution counts selected artists per era bucket.
	EraDistribution map[string]int `json:"era_distribution"`

	// MeanSimilarity is the mean similarity of the selected records.
	MeanSimilarity float64 `json:"mean_similarity"`

	// DiversityScore combines the normalized genre bucket count (60%)
	// and era bucket count (40%) against the maximum achievable for a
	// selection of this size.
	DiversityScore float64 `json:"diversity_score"`
}

// Result is the outcome of a selection run.
type Result struct {
	Selected []artist.SimilarArtist `json:"selected"`
	Rejected []Rejection            `json:"rejected"`
	Stats    Stats                  `json:"stats"`
}

// Selector performs weighted random, diversity-constrained selection
// over a candidate pool. A Selector is not safe for concurrent use;
// construct one per request or serialize calls externally.
type Selector struct {
	cfg    Config
	logger zerolog.Logger
	rng    *rand.Rand
}

// Option customizes a Selector.
type Option func(*Selector)

// WithRand injects the random source used for the weighted draw, so
// tests can seed it for deterministic selection.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.rng = r
	}
}

// New creates a Selector with the given configuration.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection config: %w", err)
	}

	s := &Selector{
		cfg:    cfg,
		logger: logger.With().Str("component", "selector").Logger(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Select draws up to MaxArtists records from the candidate pool. Each
// round draws one candidate by weighted random sampling, checks the
// hard constraints, and either accepts it (updating the genre and era
// counts that feed the next round's weights) or records the rejection.
// The loop ends when the target size is reached or the pool is
// exhausted. The input slice is not modified.
func (s *Selector) Select(candidates []artist.SimilarArtist) Result {
	pool := append([]artist.SimilarArtist(nil), candidates...)

	res := Result{
		Selected: make([]artist.SimilarArtist, 0, min(s.cfg.MaxArtists, len(pool))),
	}
	genreCounts := make(map[string]int)
	eraCounts := make(map[string]int)
	selectedNames := make(map[string]struct{})

	minSim, maxSim := similarityBounds(pool)

	for len(res.Selected) < s.cfg.MaxArtists && len(pool) > 0 {
		weights := make([]float64, len(pool))
		total := 0.0
		for i, c := range pool {
			w := s.weight(c, minSim, maxSim, genreCounts, eraCounts)
			weights[i] = w
			total += w
		}

		idx := s.draw(weights, total)
		cand := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		if reason, ok := s.checkConstraints(cand, selectedNames, genreCounts, eraCounts); !ok {
			metrics.SelectionRejections.WithLabelValues(reason).Inc()
			res.Rejected = append(res.Rejected, Rejection{Candidate: cand, Reason: reason})
			continue
		}

		res.Selected = append(res.Selected, cand)
		selectedNames[artist.NormalizeName(cand.Name)] = struct{}{}
		genreCounts[genreKey(cand)]++
		eraCounts[ClassifyEra(cand)]++
	}

	res.Stats = buildStats(res.Selected)

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("selected", len(res.Selected)).
		Int("rejected", len(res.Rejected)).
		Float64("diversity_score", res.Stats.DiversityScore).
		Msg("selection complete")

	return res
}

// weight computes a candidate's current draw weight: the min/max
// normalized similarity raised to 2*SimilarityWeight, plus the
// diversity bonus scaled by DiversityWeight.
func (s *Selector) weight(c artist.SimilarArtist, minSim, maxSim float64, genreCounts, eraCounts map[string]int) float64 {
	norm := 1.0
	if maxSim > minSim {
		norm = (c.Similarity - minSim) / (maxSim - minSim)
	}

	w := math.Pow(norm, 2*s.cfg.SimilarityWeight)
	w += s.diversityBonus(c, genreCounts, eraCounts) * s.cfg.DiversityWeight
	return w
}

func (s *Selector) diversityBonus(c artist.SimilarArtist, genreCounts, eraCounts map[string]int) float64 {
	bonus := 1.0
	if s.cfg.GenreDiversityEnabled {
		bonus *= bucketFactor(genreCounts[genreKey(c)], s.cfg.MaxPerGenre)
	}
	if s.cfg.EraDiversityEnabled {
		bonus *= bucketFactor(eraCounts[ClassifyEra(c)], s.cfg.MaxPerEra)
	}

	if bonus < minDiversityBonus {
		return minDiversityBonus
	}
	return bonus
}

func bucketFactor(count, limit int) float64 {
	switch {
	case count >= limit:
		return atCapPenalty
	case count*2 < limit:
		return underHalfBoost
	default:
		return overHalfDamp
	}
}

// draw picks an index by cumulative-probability sampling over the
// weights. A degenerate all-zero pool falls back to a uniform draw.
func (s *Selector) draw(weights []float64, total float64) int {
	if total <= 0 {
		return s.rng.Intn(len(weights))
	}

	target := s.rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

func (s *Selector) checkConstraints(c artist.SimilarArtist, names map[string]struct{}, genreCounts, eraCounts map[string]int) (string, bool) {
	if s.cfg.PreventDuplicates {
		if _, dup := names[artist.NormalizeName(c.Name)]; dup {
			return ReasonDuplicate, false
		}
	}
	if s.cfg.GenreDiversityEnabled && genreCounts[genreKey(c)] >= s.cfg.MaxPerGenre {
		return ReasonGenreCap, false
	}
	if s.cfg.EraDiversityEnabled && eraCounts[ClassifyEra(c)] >= s.cfg.MaxPerEra {
		return ReasonEraCap, false
	}
	return "", true
}

func genreKey(a artist.SimilarArtist) string {
	g := artist.NormalizeName(a.PrimaryGenre())
	if g == "" {
		return "unknown"
	}
	return g
}

func similarityBounds(pool []artist.SimilarArtist) (minSim, maxSim float64) {
	if len(pool) == 0 {
		return 0, 0
	}

	minSim, maxSim = pool[0].Similarity, pool[0].Similarity
	for _, c := range pool[1:] {
		if c.Similarity < minSim {
			minSim = c.Similarity
		}
		if c.Similarity > maxSim {
			maxSim = c.Similarity
		}
	}
	return minSim, maxSim
}

func buildStats(selected []artist.SimilarArtist) Stats {
	st := Stats{
		GenreDistribution: make(map[string]int),
		EraDistribution:   make(map[string]int),
	}
	for _, a := range selected {
		st.GenreDistribution[genreKey(a)]++
		st.EraDistribution[ClassifyEra(a)]++
	}

	st.MeanSimilarity = artist.MeanSimilarity(selected)
	st.DiversityScore = diversityScore(len(selected), len(st.GenreDistribution), len(st.EraDistribution))
	return st
}

// diversityScore measures how spread the selection is across genre and
// era buckets, each normalized against the maximum bucket count a
// selection of this size could achieve.
func diversityScore(size, genres, eras int) float64 {
	if size == 0 {
		return 0
	}

	genreScore := float64(genres) / float64(size)

	eraMax := min(size, eraBucketCount)
	eraScore := float64(eras) / float64(eraMax)

	return 0.6*genreScore + 0.4*eraScore
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
	"github.com/tomtom215/crateseek/internal/simcache"
)

// Orchestrator coordinates the discovery tiers. It is safe for
// concurrent use. Source failures are absorbed: a failing adapter is
// logged and treated as an empty result for that tier, never
// propagated to the caller.
type Orchestrator struct {
	cfg    Config
	logger zerolog.Logger

	// sources maps source names to registered adapters.
	sources map[string]Source

	// fallback powers the last-resort intelligent fallback, which runs
	// unfiltered when every configured tier comes back empty.
	fallback *FallbackSource

	// cache short-circuits repeated discoveries. Optional.
	cache *simcache.Cache
}

// NewOrchestrator creates a discovery orchestrator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg Config, cache *simcache.Cache, logger zerolog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Orchestrator{
		cfg:     cfg,
		logger:  logger.With().Str("component", "discovery").Logger(),
		sources: make(map[string]Source),
		cache:   cache,
	}, nil
}

// RegisterSource adds a source adapter. Registering the fallback
// source also arms the orchestrator's intelligent fallback.
func (o *Orchestrator) RegisterSource(src Source) {
	o.sources[src.Name()] = src
	if fb, ok := src.(*FallbackSource); ok {
		o.fallback = fb
	}
	o.logger.Info().Str("source", src.Name()).Msg("registered discovery source")
}

// FindSimilar runs the tiered discovery for a seed artist.
//
// Sources are tried in the configured preference order; each source's
// raw output is filtered by the similarity threshold, and the first
// tier with a non-empty filtered list wins. If every tier comes back
// empty, the intelligent fallback borrows the closest curated
// artist's list. The result is never an error for "nothing found":
// that case returns an empty, low-confidence result.
func (o *Orchestrator) FindSimilar(ctx context.Context, req Request) (Result, error) {
	if artist.NormalizeName(req.Artist) == "" {
		return Result{}, fmt.Errorf("artist name is empty")
	}

	limit := req.MaxResults
	if limit <= 0 {
		limit = o.cfg.MaxResults
	}

	preset := req.Threshold
	if preset == "" {
		preset = o.cfg.Threshold
	}
	threshold, err := thresholdValue(preset)
	if err != nil {
		return Result{}, err
	}

	logger := o.logger.With().Str("artist", req.Artist).Logger()

	if res, ok := o.fromCache(req.Artist, limit); ok {
		logger.Debug().Int("records", res.TotalFound).Msg("cache hit")
		return res, nil
	}

	result := Result{
		Artist:          req.Artist,
		PerSourceCounts: make(map[string]int),
	}

	for _, name := range o.cfg.Order {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !o.cfg.sourceEnabled(name) {
			continue
		}
		src, ok := o.sources[name]
		if !ok {
			continue
		}

		raw := o.invoke(ctx, src, req.Artist, limit)
		result.PerSourceCounts[name] = len(raw)

		filtered := filterRecords(raw, req.Artist, threshold, limit)
		if len(filtered) == 0 {
			continue
		}

		o.store(req.Artist, filtered, name)
		result.Records = filtered
		result.TotalFound = len(filtered)
		result.ChosenSource = name
		result.Confidence = confidenceFor(name, len(filtered))

		metrics.DiscoveryRequests.WithLabelValues(name, string(result.Confidence)).Inc()
		logger.Debug().
			Str("source", name).
			Int("records", len(filtered)).
			Str("confidence", string(result.Confidence)).
			Msg("discovery complete")
		return result, nil
	}

	// Every tier came back empty: borrow from the closest curated
	// artist, unfiltered, before giving up.
	if o.fallback != nil {
		borrowed, _ := o.fallback.FindSimilar(ctx, req.Artist, limit)
		if len(borrowed) > 0 {
			borrowed = filterRecords(borrowed, req.Artist, 0, limit)
			o.store(req.Artist, borrowed, SourceFallback)

			result.Records = borrowed
			result.TotalFound = len(borrowed)
			result.ChosenSource = SourceFallback
			result.Confidence = confidenceFor(SourceFallback, len(borrowed))
			result.PerSourceCounts[SourceFallback] = len(borrowed)

			metrics.DiscoveryRequests.WithLabelValues(SourceFallback, string(result.Confidence)).Inc()
			logger.Debug().Int("records", len(borrowed)).Msg("intelligent fallback used")
			return result, nil
		}
	}

	result.Records = []artist.SimilarArtist{}
	result.Confidence = ConfidenceLow
	metrics.DiscoveryRequests.WithLabelValues("none", string(ConfidenceLow)).Inc()
	logger.Debug().Msg("no source produced qualifying candidates")
	return result, nil
}

// fromCache returns a cached result if present.
func (o *Orchestrator) fromCache(seed string, limit int) (Result, bool) {
	if o.cache == nil {
		return Result{}, false
	}

	entry, ok := o.cache.Get(seed)
	if !ok {
		return Result{}, false
	}

	records := entry.Records
	if len(records) > limit {
		records = records[:limit]
	}

	return Result{
		Artist:          seed,
		TotalFound:      len(records),
		PerSourceCounts: map[string]int{SourceCache: len(records)},
		Records:         records,
		ChosenSource:    entry.SourceID,
		Confidence:      confidenceFor(entry.SourceID, len(records)),
		CacheHit:        true,
	}, true
}

// invoke calls one source adapter, absorbing its failure into an
// empty result.
func (o *Orchestrator) invoke(ctx context.Context, src Source, seed string, limit int) []artist.SimilarArtist {
	start := time.Now()
	raw, err := src.FindSimilar(ctx, seed, limit)
	metrics.DiscoveryDuration.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.DiscoverySourceCalls.WithLabelValues(src.Name(), "error").Inc()
		o.logger.Warn().
			Err(err).
			Str("source", src.Name()).
			Str("artist", seed).
			Msg("source failed, moving to next tier")
		return nil
	case len(raw) == 0:
		metrics.DiscoverySourceCalls.WithLabelValues(src.Name(), "empty").Inc()
		return nil
	default:
		metrics.DiscoverySourceCalls.WithLabelValues(src.Name(), "ok").Inc()
		return raw
	}
}

// store writes a successful discovery into the cache.
func (o *Orchestrator) store(seed string, records []artist.SimilarArtist, source string) {
	if o.cache == nil {
		return
	}
	o.cache.Put(seed, records, simcache.SourceMeta{SourceID: source, CallCount: 1})
}

// filterRecords applies the similarity threshold, clamps scores,
// drops the seed itself and duplicate names, and caps the list.
func filterRecords(raw []artist.SimilarArtist, seed string, threshold float64, limit int) []artist.SimilarArtist {
	out := make([]artist.SimilarArtist, 0, len(raw))
	for _, r := range raw {
		r.Similarity = artist.ClampSimilarity(r.Similarity)
		if r.Similarity < threshold {
			continue
		}
		if artist.SameName(r.Name, seed) {
			continue
		}
		out = append(out, r)
	}

	out = artist.DedupeByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

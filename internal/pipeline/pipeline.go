// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/discovery"
	"github.com/tomtom215/crateseek/internal/metrics"
	"github.com/tomtom215/crateseek/internal/selection"
)

// Discoverer expands a seed artist into similar-artist records.
type Discoverer interface {
	FindSimilar(ctx context.Context, req discovery.Request) (discovery.Result, error)
}

// ArtistSelector narrows a candidate pool to a diversity-constrained
// selection.
type ArtistSelector interface {
	Select(candidates []artist.SimilarArtist) selection.Result
}

// Observer receives immutable progress snapshots.
type Observer func(Progress)

// Pipeline runs clip generation. One run may be active at a time.
type Pipeline struct {
	defaults   Config
	discoverer Discoverer
	selector   ArtistSelector
	searcher   VideoSearcher
	creator    ClipCreator
	logger     zerolog.Logger
	rng        *rand.Rand
	now        func() time.Time

	busy atomic.Bool

	mu        sync.Mutex
	progress  Progress
	observers []Observer
	cancel    context.CancelFunc
}

// run is the per-generation working state.
type run struct {
	p    *Pipeline
	cfg  Config
	seed string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRand injects the random source used for clip start times, so
// tests can seed it for deterministic output.
func WithRand(r *rand.Rand) Option {
	return func(p *Pipeline) {
		p.rng = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline around the given collaborators. The defaults
// fill in zero-valued fields of each request's config.
func New(defaults Config, d Discoverer, sel ArtistSelector, searcher VideoSearcher, creator ClipCreator, logger zerolog.Logger, opts ...Option) (*Pipeline, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation config: %w", err)
	}
	if searcher == nil || creator == nil {
		return nil, fmt.Errorf("video searcher and clip creator are required")
	}

	p := &Pipeline{
		defaults:   defaults,
		discoverer: d,
		selector:   sel,
		searcher:   searcher,
		creator:    creator,
		logger:     logger.With().Str("component", "pipeline").Logger(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Subscribe registers an observer for progress snapshots. Observers
// are invoked synchronously on every transition and must not block.
func (p *Pipeline) Subscribe(obs Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, obs)
}

// Busy reports whether a generation run is in flight.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Progress returns the latest progress snapshot.
func (p *Pipeline) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyProgress(p.progress)
}

// Cancel requests cooperative cancellation of the active run. It is a
// no-op when nothing is running.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Generate runs the full state machine synchronously and returns the
// result. A second call while a run is active fails immediately with
// ErrGenerationInProgress. Cancellation ends the run in the cancelled
// terminal state with a partial result and a nil error.
func (p *Pipeline) Generate(ctx context.Context, req Request) (Result, error) {
	seed := strings.TrimSpace(req.Seed)
	if seed == "" {
		return Result{State: StateError}, fmt.Errorf("generation seed must not be empty")
	}

	cfg := req.Config.withDefaults(p.defaults)
	if err := cfg.Validate(); err != nil {
		return Result{State: StateError}, fmt.Errorf("invalid generation config: %w", err)
	}

	if !p.busy.CompareAndSwap(false, true) {
		return Result{State: StateError}, ErrGenerationInProgress
	}
	defer p.busy.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	metrics.GenerationsStarted.Inc()
	started := p.now()

	r := &run{p: p, cfg: cfg, seed: seed}
	p.resetProgress(cfg.TargetClipCount, started)

	res, err := p.execute(ctx, r)
	res.Elapsed = p.now().Sub(started)
	res.Warnings = p.Progress().Warnings

	metrics.GenerationsCompleted.WithLabelValues(string(res.State)).Inc()
	metrics.GenerationDuration.Observe(res.Elapsed.Seconds())

	p.logger.Info().
		Str("seed", seed).
		Str("state", string(res.State)).
		Int("clips", len(res.Clips)).
		Float64("quality", res.QualityScore).
		Dur("elapsed", res.Elapsed).
		Msg("generation finished")

	return res, err
}

// execute walks the state machine. Cancellation is checked at every
// transition and inside the stage loops.
func (p *Pipeline) execute(ctx context.Context, r *run) (Result, error) {
	p.transition(StateInit, "")

	if cancelled(ctx) {
		return p.cancelResult(r, nil)
	}
	p.transition(StateBuildStrategy, "")
	queries := buildStrategy(r.cfg, r.seed, nil)

	if cancelled(ctx) {
		return p.cancelResult(r, nil)
	}
	p.transition(StateDiscover, "")
	selected, selStats := p.discover(ctx, r)
	if cancelled(ctx) {
		return p.cancelResult(r, nil)
	}
	queries = append(queries, buildStrategy(r.cfg, r.seed, selected)[len(queries):]...)

	p.transition(StateSearchVideos, "")
	found, err := p.searchVideos(ctx, r, queries)
	if err != nil {
		return p.cancelResult(r, nil)
	}

	p.transition(StateFilterAndRank, "")
	ranked := filterAndRank(found, r.cfg)
	p.setQualified(len(ranked))
	if len(ranked) == 0 {
		return p.failResult(r, selStats, ErrNoCandidates)
	}

	if cancelled(ctx) {
		return p.cancelResult(r, nil)
	}
	p.transition(StateGenerateClips, "")
	clips, err := p.generateClips(ctx, r, ranked)
	if err != nil {
		return p.cancelResult(r, clips)
	}

	p.transition(StateFinalize, "")
	res := Result{
		State:          StateComplete,
		Clips:          clips,
		QualityScore:   qualityScore(clips, r.cfg.TargetClipCount),
		SelectionStats: selStats,
	}
	p.transition(StateComplete, "")
	return res, nil
}

// discover expands the seed through the orchestrator and selector.
// Keyword searches skip discovery; discovery failures degrade to an
// empty selection with a warning rather than aborting the run.
func (p *Pipeline) discover(ctx context.Context, r *run) ([]artist.SimilarArtist, selection.Stats) {
	if r.cfg.SearchType == SearchTypeKeyword || p.discoverer == nil {
		return nil, selection.Stats{}
	}

	dres, err := p.discoverer.FindSimilar(ctx, discovery.Request{
		Artist:    r.seed,
		Threshold: r.cfg.SimilarityThreshold,
	})
	if err != nil {
		r.warnf("similar-artist discovery failed: %v", err)
		return nil, selection.Stats{}
	}
	p.setSimilar(dres.TotalFound)

	if p.selector == nil {
		return dres.Records, selection.Stats{}
	}
	sel := p.selector.Select(dres.Records)
	return sel.Selected, sel.Stats
}

// searchVideos runs every query against the collaborator in priority
// order, scoring each candidate against the query that found it.
// Per-query failures accumulate as warnings.
func (p *Pipeline) searchVideos(ctx context.Context, r *run, queries []SearchQuery) ([]VideoCandidate, error) {
	sort.SliceStable(queries, func(i, j int) bool {
		return queries[i].Priority > queries[j].Priority
	})

	var found []VideoCandidate
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		cands, err := p.searcher.Search(ctx, q, SearchOptions{MaxResults: q.MaxResults})
		if err != nil {
			r.warnf("search %q failed: %v", q.Text, err)
			continue
		}

		for _, v := range cands {
			if v.SourceQuery == "" {
				v.SourceQuery = q.Text
			}
			if v.AttributedArtist == "" {
				v.AttributedArtist = q.AttributedArtist
			}
			v.RelevanceScore = scoreRelevance(v, q)
			found = append(found, v)
		}
		p.setVideosFound(len(found))
	}
	return found, nil
}

func (p *Pipeline) cancelResult(r *run, clips []GeneratedClip) (Result, error) {
	p.transition(StateCancelled, "generation cancelled")
	return Result{
		State:        StateCancelled,
		Clips:        clips,
		QualityScore: qualityScore(clips, r.cfg.TargetClipCount),
	}, nil
}

func (p *Pipeline) failResult(r *run, selStats selection.Stats, err error) (Result, error) {
	p.transition(StateError, err.Error())
	return Result{State: StateError, SelectionStats: selStats}, err
}

// withDefaults fills zero-valued fields from the pipeline defaults.
func (c Config) withDefaults(d Config) Config {
	if c.SearchType == "" {
		c.SearchType = d.SearchType
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.TargetClipCount == 0 {
		c.TargetClipCount = d.TargetClipCount
	}
	if c.ClipDurationSeconds == 0 {
		c.ClipDurationSeconds = d.ClipDurationSeconds
	}
	if c.MaxClipsPerArtist == 0 {
		c.MaxClipsPerArtist = d.MaxClipsPerArtist
	}
	if c.SimilarityThreshold == "" {
		c.SimilarityThreshold = d.SimilarityThreshold
	}
	if c.MinVideoDurationSeconds == 0 {
		c.MinVideoDurationSeconds = d.MinVideoDurationSeconds
	}
	if c.MaxVideoDurationSeconds == 0 {
		c.MaxVideoDurationSeconds = d.MaxVideoDurationSeconds
	}
	if c.MaxResultsPerQuery == 0 {
		c.MaxResultsPerQuery = d.MaxResultsPerQuery
	}
	return c
}

func cancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}

// resetProgress seeds a fresh snapshot for a new run.
func (p *Pipeline) resetProgress(target int, started time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = Progress{
		State:           StateInit,
		TargetClipCount: target,
		StartedAt:       started,
		UpdatedAt:       started,
	}
}

// publish mutates the snapshot under the lock, then notifies observers
// with an immutable copy outside it.
func (p *Pipeline) publish(mutate func(*Progress)) {
	p.mu.Lock()
	mutate(&p.progress)
	p.progress.UpdatedAt = p.now()
	snap := copyProgress(p.progress)
	observers := p.observers
	p.mu.Unlock()

	for _, obs := range observers {
		obs(snap)
	}
}

func (p *Pipeline) transition(state State, msg string) {
	p.publish(func(pr *Progress) {
		pr.State = state
		pr.Message = msg
	})
}

func (p *Pipeline) setSimilar(n int) {
	p.publish(func(pr *Progress) { pr.SimilarArtists = n })
}

func (p *Pipeline) setVideosFound(n int) {
	p.publish(func(pr *Progress) { pr.VideosFound = n })
}

func (p *Pipeline) setQualified(n int) {
	p.publish(func(pr *Progress) { pr.VideosQualified = n })
}

func (r *run) setClips(n int) {
	r.p.publish(func(pr *Progress) { pr.ClipsGenerated = n })
}

func (p *Pipeline) addWarning(r *run, msg string) {
	p.logger.Warn().Str("seed", r.seed).Msg(msg)
	p.publish(func(pr *Progress) {
		pr.Warnings = append(pr.Warnings, msg)
	})
}

func copyProgress(pr Progress) Progress {
	out := pr
	out.Warnings = append([]string(nil), pr.Warnings...)
	return out
}

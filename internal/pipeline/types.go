// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/crateseek/internal/selection"
)

// State names the stage a generation run is in. States advance
// linearly; StateComplete, StateError, and StateCancelled are terminal.
type State string

const (
	StateInit          State = "init"
	StateBuildStrategy State = "build_strategy"
	StateDiscover      State = "discover_similar_artists"
	StateSearchVideos  State = "search_videos"
	StateFilterAndRank State = "filter_and_rank"
	StateGenerateClips State = "generate_clips"
	StateFinalize      State = "finalize"
	StateComplete      State = "complete"
	StateError         State = "error"
	StateCancelled     State = "cancelled"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateError || s == StateCancelled
}

// Search types.
const (
	SearchTypeArtist  = "artist"
	SearchTypeKeyword = "keyword"
	SearchTypeMixed   = "mixed"
)

// Generation modes.
const (
	ModeVariety      = "variety"
	ModeSingleArtist = "single-artist"
)

// Sentinel errors surfaced by the pipeline.
var (
	// ErrGenerationInProgress rejects a run while another is active.
	ErrGenerationInProgress = errors.New("generation already in progress")

	// ErrNoCandidates aborts a run whose searches produced no usable
	// video candidates at all.
	ErrNoCandidates = errors.New("no qualifying video candidates")
)

// SearchQuery is one prioritized query emitted by the strategy builder.
type SearchQuery struct {
	Text             string `json:"text"`
	AttributedArtist string `json:"attributed_artist"`
	Priority         int    `json:"priority"` // 1 (lowest) to 10 (highest)
	MaxResults       int    `json:"max_results"`
}

// VideoCandidate is an externally supplied video descriptor, enriched
// with a relevance score during ranking.
type VideoCandidate struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	ChannelName      string  `json:"channel_name"`
	DurationSeconds  int     `json:"duration_seconds"`
	ViewCount        int64   `json:"view_count"`
	SourceQuery      string  `json:"source_query"`
	AttributedArtist string  `json:"attributed_artist"`
	RelevanceScore   float64 `json:"relevance_score"`
	IsOfficial       bool    `json:"is_official"`
	IsRemix          bool    `json:"is_remix"`
}

// GeneratedClip is one clip cut from a ranked video candidate.
type GeneratedClip struct {
	VideoID          string  `json:"video_id"`
	AttributedArtist string  `json:"attributed_artist"`
	StartTimeSeconds int     `json:"start_time_seconds"`
	DurationSeconds  int     `json:"duration_seconds"`
	RelevanceScore   float64 `json:"relevance_score"`
	Rank             int     `json:"rank"`
}

// SearchOptions narrows a collaborator search.
type SearchOptions struct {
	MaxResults    int    `json:"max_results"`
	DurationClass string `json:"duration_class,omitempty"`
}

// VideoSearcher is the external video-search collaborator.
type VideoSearcher interface {
	Search(ctx context.Context, query SearchQuery, opts SearchOptions) ([]VideoCandidate, error)
}

// ClipCreator materializes clips from a video. The returned handle is
// opaque to the pipeline.
type ClipCreator interface {
	CreateClip(ctx context.Context, video VideoCandidate, startSeconds, durationSeconds int) (string, error)
}

// Config carries the per-run generation settings.
type Config struct {
	// SearchType is artist, keyword, or mixed.
	SearchType string `koanf:"search_type"`

	// Mode is variety or single-artist.
	Mode string `koanf:"mode"`

	// TargetClipCount is how many clips a run aims to produce.
	TargetClipCount int `koanf:"target_clip_count"`

	// ClipDurationSeconds is the length of each generated clip.
	ClipDurationSeconds int `koanf:"clip_duration_seconds"`

	// MaxClipsPerArtist caps clips attributed to one artist.
	MaxClipsPerArtist int `koanf:"max_clips_per_artist"`

	// SimilarityThreshold is the discovery preset (loose, moderate,
	// strict) applied when expanding the seed artist.
	SimilarityThreshold string `koanf:"similarity_threshold"`

	// MinVideoDurationSeconds and MaxVideoDurationSeconds bound the
	// source videos considered during filtering.
	MinVideoDurationSeconds int `koanf:"min_video_duration_seconds"`
	MaxVideoDurationSeconds int `koanf:"max_video_duration_seconds"`

	// MaxResultsPerQuery bounds each collaborator search call.
	MaxResultsPerQuery int `koanf:"max_results_per_query"`
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		SearchType:              SearchTypeArtist,
		Mode:                    ModeVariety,
		TargetClipCount:         60,
		ClipDurationSeconds:     60,
		MaxClipsPerArtist:       5,
		SimilarityThreshold:     "moderate",
		MinVideoDurationSeconds: 60,
		MaxVideoDurationSeconds: 1200,
		MaxResultsPerQuery:      25,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.SearchType {
	case SearchTypeArtist, SearchTypeKeyword, SearchTypeMixed:
	default:
		return fmt.Errorf("unknown search_type %q", c.SearchType)
	}
	switch c.Mode {
	case ModeVariety, ModeSingleArtist:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.TargetClipCount <= 0 {
		return fmt.Errorf("target_clip_count must be positive, got %d", c.TargetClipCount)
	}
	if c.ClipDurationSeconds <= 0 {
		return fmt.Errorf("clip_duration_seconds must be positive, got %d", c.ClipDurationSeconds)
	}
	if c.MaxClipsPerArtist <= 0 {
		return fmt.Errorf("max_clips_per_artist must be positive, got %d", c.MaxClipsPerArtist)
	}
	if c.MinVideoDurationSeconds < 0 || c.MaxVideoDurationSeconds < c.MinVideoDurationSeconds {
		return fmt.Errorf("invalid video duration window [%d, %d]",
			c.MinVideoDurationSeconds, c.MaxVideoDurationSeconds)
	}
	if c.MaxResultsPerQuery <= 0 {
		return fmt.Errorf("max_results_per_query must be positive, got %d", c.MaxResultsPerQuery)
	}
	return nil
}

// Request starts a generation run.
type Request struct {
	// Seed is the artist name or keyword the run expands from.
	Seed string `json:"seed" validate:"required"`

	// Config overrides; zero-valued fields fall back to the pipeline's
	// configured defaults via Normalize.
	Config Config `json:"config"`
}

// Progress is an immutable snapshot of a run's state, emitted to
// observers on every transition and count change.
type Progress struct {
	State           State     `json:"state"`
	Message         string    `json:"message,omitempty"`
	SimilarArtists  int       `json:"similar_artists"`
	VideosFound     int       `json:"videos_found"`
	VideosQualified int       `json:"videos_qualified"`
	ClipsGenerated  int       `json:"clips_generated"`
	TargetClipCount int       `json:"target_clip_count"`
	Warnings        []string  `json:"warnings,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Result is the outcome of a completed (or partially completed) run.
type Result struct {
	State          State           `json:"state"`
	Clips          []GeneratedClip `json:"clips"`
	QualityScore   float64         `json:"quality_score"`
	SelectionStats selection.Stats `json:"selection_stats"`
	Warnings       []string        `json:"warnings,omitempty"`
	Elapsed        time.Duration   `json:"elapsed"`
}

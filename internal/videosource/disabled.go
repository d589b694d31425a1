// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package videosource

import (
	"context"
	"errors"

	"github.com/tomtom215/crateseek/internal/pipeline"
)

// ErrNotConfigured is returned by the Disabled collaborators when no
// video catalog base URL is set.
var ErrNotConfigured = errors.New("video catalog not configured")

// Disabled is a stand-in collaborator for deployments without a video
// catalog. Discovery endpoints keep working; generation runs fail per
// query and end with no candidates.
type Disabled struct{}

// Search implements pipeline.VideoSearcher.
func (Disabled) Search(context.Context, pipeline.SearchQuery, pipeline.SearchOptions) ([]pipeline.VideoCandidate, error) {
	return nil, ErrNotConfigured
}

// CreateClip implements pipeline.ClipCreator.
func (Disabled) CreateClip(context.Context, pipeline.VideoCandidate, int, int) (string, error) {
	return "", ErrNotConfigured
}

var (
	_ pipeline.VideoSearcher = Disabled{}
	_ pipeline.ClipCreator   = Disabled{}
)

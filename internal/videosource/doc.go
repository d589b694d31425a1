// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package videosource implements the external video collaborators the
// clip pipeline depends on: an HTTP client that searches a remote video
// catalog and asks the same service to materialize clips.
//
// The client serializes upstream calls behind a rate limiter and wraps
// them in a circuit breaker, so a struggling catalog degrades into
// per-query warnings instead of retry storms. When no catalog is
// configured the Disabled implementation stands in and fails every
// call with ErrNotConfigured, which the pipeline absorbs as warnings.
package videosource

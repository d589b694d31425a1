// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package pipeline assembles playlist clips from a seed artist or
// keyword. A generation run walks a linear state machine: build a
// search strategy, discover similar artists, search for video
// candidates, filter and rank them by relevance, and cut clips via an
// external collaborator.
//
// One generation may be in flight per Pipeline instance; a second
// request is rejected immediately with ErrGenerationInProgress rather
// than queued. Cancellation is cooperative: the run checks its context
// between stages and inside the search and generation loops, and
// unwinds to a cancelled terminal state instead of faulting.
//
// Consumers observe progress as immutable snapshots, either by
// subscribing an observer or by polling Progress.
package pipeline

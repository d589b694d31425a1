// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package selection converts a discovered candidate pool into a
// bounded, diversity-constrained final selection.
//
// Selection is a weighted random draw: each candidate's weight combines
// its similarity (normalized across the pool and sharpened by the
// configured similarity weight) with a diversity bonus that favors
// genres and era buckets still under-represented in the running
// selection. Hard constraints (duplicate names, per-genre and per-era
// caps) are enforced after the draw, with rejected candidates reported
// alongside the result.
//
// The random source is injectable so callers can seed it for
// deterministic selection in tests.
package selection

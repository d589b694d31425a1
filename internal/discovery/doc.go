// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package discovery implements multi-tier similar-artist discovery.
//
// An Orchestrator queries independent similarity sources in a
// configured preference order, filters each source's raw output by a
// similarity threshold, and returns the first qualifying tier's
// results annotated with a confidence level. Failures inside any one
// source are absorbed and logged, never propagated: the orchestrator
// simply moves to the next tier.
//
// Four source adapters are provided:
//
//   - external: a rate-limited HTTP similarity API, with secondary
//     lookups to widen thin result sets
//   - curated: exact-key lookup into a static genre/artist table
//   - heuristic: name-pattern genre detection backed by the same table
//   - fallback: fuzzy matching against the curated table's artist
//     names, borrowing the best match's similar-artist list
//
// Results are cached through the simcache package; a cache hit skips
// all source calls.
package discovery

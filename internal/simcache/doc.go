// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package simcache implements the persistent similar-artist cache.
//
// The cache maps a normalized artist name to the similar-artist records
// a discovery source produced for it, plus access metadata. Entries
// carry a popularity tier (high/medium/low) derived from how often the
// key is requested and how rich the stored result set is; the tier
// drives the entry's time-to-live (30/14/7 days).
//
// Expired entries are evicted lazily on read and by a periodic sweep.
// When the store exceeds its capacity, expired entries are removed
// first, then the least-recently-accessed entries until under the cap.
//
// The full entry set plus running hit/miss statistics can be exported
// as a versioned snapshot blob and re-imported later; import fully
// replaces the current state and fails closed on malformed input.
//
// All operations are safe for concurrent use; the background sweep and
// backup jobs mutate the cache through the same lock as the request
// path.
package simcache

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package backup persists similarity-cache snapshots to disk on a
// schedule and restores them at startup.
//
// Each backup is a full cache snapshot written atomically (temp file
// plus rename) into the configured directory, named by UTC timestamp.
// Retention keeps the newest MaxBackups files and drops anything older
// than MaxAgeDays. Restore feeds the newest readable snapshot back
// through the cache's fail-closed import, so a corrupt backup on disk
// is skipped rather than applied.
package backup

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package api exposes the HTTP surface: similar-artist discovery,
// clip generation control, cache statistics and snapshots, backups,
// health, and Prometheus metrics.
//
// Routing uses chi with a per-IP rate limit, CORS, request-ID
// propagation, and request metrics applied router-wide. Handlers
// respond with a JSON envelope; errors carry a machine-readable code
// alongside the message.
package api

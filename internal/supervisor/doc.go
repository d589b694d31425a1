// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package supervisor builds the suture supervision tree that keeps the
// long-running pieces of Crateseek alive: the cache sweeper, the backup
// scheduler, and the HTTP server.
//
// The tree has two child layers. Maintenance services (cache sweeping,
// backups) run under one supervisor, the HTTP server under another, so
// a crashing maintenance loop never restarts the API and vice versa.
//
// Supervisor events are logged through sutureslog, bridged into zerolog
// by the logging package.
package supervisor

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package sched provides a small scheduler abstraction over platform
// timers. Background jobs (cache sweeps, snapshot backups) take a
// Scheduler instead of constructing time.Ticker directly, so tests can
// trigger runs synchronously with the Manual implementation.
package sched

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a function repeatedly at a fixed interval.
type Scheduler interface {
	// Every invokes fn every interval until ctx is cancelled.
	// It blocks until ctx is done.
	Every(ctx context.Context, interval time.Duration, fn func())
}

// Ticker is the production Scheduler backed by time.Ticker.
type Ticker struct{}

// Every invokes fn every interval until ctx is cancelled.
func (Ticker) Every(ctx context.Context, interval time.Duration, fn func()) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}

// Manual is a test Scheduler whose runs are triggered explicitly.
type Manual struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewManual creates a Manual scheduler.
func NewManual() *Manual {
	return &Manual{ch: make(chan struct{})}
}

// Every invokes fn each time Trigger is called, until ctx is cancelled.
// The interval is ignored.
func (m *Manual) Every(ctx context.Context, _ time.Duration, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ch:
			fn()
		}
	}
}

// Trigger runs one scheduled invocation. It blocks until a scheduled
// loop is ready to receive, so callers know fn has been dispatched.
func (m *Manual) Trigger(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case m.ch <- struct{}{}:
	case <-ctx.Done():
	}
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"context"
	"time"

	"github.com/tomtom215/crateseek/internal/sched"
)

// Sweeper periodically removes expired cache entries. It implements
// suture.Service and runs independently of the request path.
type Sweeper struct {
	cache     *Cache
	interval  time.Duration
	scheduler sched.Scheduler
}

// NewSweeper creates a sweeper for the given cache. A nil scheduler
// uses the production ticker.
func NewSweeper(cache *Cache, interval time.Duration, scheduler sched.Scheduler) *Sweeper {
	if scheduler == nil {
		scheduler = sched.Ticker{}
	}
	if interval <= 0 {
		interval = DefaultConfig().SweepInterval
	}
	return &Sweeper{
		cache:     cache,
		interval:  interval,
		scheduler: scheduler,
	}
}

// Serve runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Serve(ctx context.Context) error {
	s.scheduler.Every(ctx, s.interval, func() {
		s.cache.Sweep()
	})
	return ctx.Err()
}

// String names the service for supervisor logs.
func (s *Sweeper) String() string {
	return "simcache-sweeper"
}

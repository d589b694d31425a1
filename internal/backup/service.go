// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package backup

import (
	"context"

	"github.com/tomtom215/crateseek/internal/sched"
)

// Service runs scheduled backups under a supervision tree.
type Service struct {
	manager   *Manager
	scheduler sched.Scheduler
}

// NewService wraps a Manager in a suture-compatible service.
func NewService(manager *Manager, scheduler sched.Scheduler) *Service {
	return &Service{
		manager:   manager,
		scheduler: scheduler,
	}
}

// Serve creates a backup and applies retention on every tick until the
// context is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	s.scheduler.Every(ctx, s.manager.cfg.Interval, func() {
		if _, err := s.manager.Create(); err != nil {
			s.manager.logger.Error().Err(err).Msg("scheduled backup failed")
			return
		}
		if _, err := s.manager.Prune(); err != nil {
			s.manager.logger.Error().Err(err).Msg("backup retention failed")
		}
	})
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *Service) String() string {
	return "backup-service"
}

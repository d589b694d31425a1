// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Command server runs the Crateseek HTTP service: similar-artist
// discovery, diversity-aware selection, and playlist clip assembly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/crateseek/internal/api"
	"github.com/tomtom215/crateseek/internal/backup"
	"github.com/tomtom215/crateseek/internal/config"
	"github.com/tomtom215/crateseek/internal/discovery"
	"github.com/tomtom215/crateseek/internal/logging"
	"github.com/tomtom215/crateseek/internal/pipeline"
	"github.com/tomtom215/crateseek/internal/sched"
	"github.com/tomtom215/crateseek/internal/selection"
	"github.com/tomtom215/crateseek/internal/simcache"
	"github.com/tomtom215/crateseek/internal/supervisor"
	"github.com/tomtom215/crateseek/internal/videosource"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("version", version).Msg("Starting Crateseek")

	logger := logging.Logger()

	// Similarity cache, restored from the latest backup when one exists.
	cache, err := simcache.New(cfg.Cache, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create similarity cache")
	}

	var backups *backup.Manager
	if cfg.Backup.Enabled {
		backups, err = backup.New(cfg.Backup, cache, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create backup manager")
		}
		if err := backups.RestoreLatest(); err != nil {
			logging.Warn().Err(err).Msg("Cache restore failed, starting empty")
		} else if n := cache.Len(); n > 0 {
			logging.Info().Int("entries", n).Msg("Cache restored from backup")
		}
	} else {
		logging.Info().Msg("Backups disabled")
	}

	// Discovery orchestrator with its source chain. The external
	// similarity API joins the chain only when configured.
	orchestrator, err := discovery.NewOrchestrator(cfg.Discovery, cache, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create discovery orchestrator")
	}

	if cfg.External.BaseURL != "" {
		external, err := discovery.NewExternalSource(cfg.External, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create external similarity source")
		}
		orchestrator.RegisterSource(external)
		logging.Info().Str("base_url", cfg.External.BaseURL).Msg("External similarity source enabled")
	} else {
		logging.Info().Msg("External similarity source not configured")
	}

	curated := discovery.NewCuratedSource()
	orchestrator.RegisterSource(curated)
	orchestrator.RegisterSource(discovery.NewHeuristicSource())
	orchestrator.RegisterSource(discovery.NewFallbackSource(curated))

	selector, err := selection.New(cfg.Selection, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create artist selector")
	}

	// Video catalog collaborators. Without a catalog the service still
	// answers discovery requests; generation runs end with no candidates.
	var (
		searcher pipeline.VideoSearcher
		creator  pipeline.ClipCreator
	)
	if cfg.VideoSource.BaseURL != "" {
		client, err := videosource.NewClient(cfg.VideoSource, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create video catalog client")
		}
		searcher, creator = client, client
		logging.Info().Str("base_url", cfg.VideoSource.BaseURL).Msg("Video catalog enabled")
	} else {
		searcher, creator = videosource.Disabled{}, videosource.Disabled{}
		logging.Warn().Msg("Video catalog not configured, clip generation disabled")
	}

	pipe, err := pipeline.New(cfg.Generation, orchestrator, selector, searcher, creator, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create clip pipeline")
	}

	handler := api.NewHandler(orchestrator, pipe, cache, backups, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		CORSOrigins:     cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision tree: maintenance services in one layer, the HTTP
	// server in another. sutureslog bridges supervisor events into
	// zerolog through the slog adapter.
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddMaintenanceService(simcache.NewSweeper(cache, cfg.Cache.SweepInterval, sched.Ticker{}))
	if backups != nil {
		tree.AddMaintenanceService(backup.NewService(backups, sched.Ticker{}))
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// A final backup preserves cache state across restarts.
	if backups != nil {
		if _, err := backups.Create(); err != nil {
			logging.Warn().Err(err).Msg("Final backup failed")
		}
	}

	logging.Info().Msg("Stopped gracefully")
}

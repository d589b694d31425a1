// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the middleware settings the router needs.
type RouterConfig struct {
	RateLimitReqs   int
	RateLimitWindow time.Duration
	CORSOrigins     []string
}

// NewRouter assembles the chi router around the handler.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(cfg.CORSOrigins))
	r.Use(requestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(requestMetrics)

		r.Get("/health", h.Health)

		r.Post("/discover", h.Discover)

		r.Post("/generate", h.Generate)
		r.Post("/generate/cancel", h.GenerateCancel)
		r.Get("/generate/progress", h.GenerateProgress)
		r.Get("/generate/result", h.GenerateResult)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", h.CacheStats)
			r.Get("/snapshot", h.CacheSnapshotExport)
			r.Put("/snapshot", h.CacheSnapshotImport)
		})

		r.Route("/backups", func(r chi.Router) {
			r.Post("/", h.BackupCreate)
			r.Get("/", h.BackupList)
			r.Post("/restore", h.BackupRestore)
		})
	})

	return r
}

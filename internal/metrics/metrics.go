// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

// Package metrics provides Prometheus instrumentation for Crateseek:
// similarity-cache efficiency, per-source discovery throughput and
// failures, selection outcomes, and clip-generation timing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Similarity cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simcache_hits_total",
			Help: "Total number of similarity cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simcache_misses_total",
			Help: "Total number of similarity cache misses",
		},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simcache_evictions_total",
			Help: "Total number of cache evictions by cause",
		},
		[]string{"cause"}, // "expired", "capacity"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simcache_entries",
			Help: "Current number of similarity cache entries",
		},
	)

	// Discovery metrics

	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Total discovery requests by chosen source and confidence",
		},
		[]string{"source", "confidence"},
	)

	DiscoverySourceCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_source_calls_total",
			Help: "Total per-source adapter invocations by outcome",
		},
		[]string{"source", "outcome"}, // outcome: "ok", "empty", "error"
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "Duration of discovery requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ExternalAPIRateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_external_ratelimit_waits_total",
			Help: "Number of times the external similarity adapter waited on its rate limiter",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	// Selection metrics

	SelectionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_rejections_total",
			Help: "Candidates rejected during selection by reason",
		},
		[]string{"reason"},
	)

	// Generation pipeline metrics

	GenerationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generations_started_total",
			Help: "Total clip-generation runs started",
		},
	)

	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_completed_total",
			Help: "Total clip-generation runs finished by terminal state",
		},
		[]string{"state"}, // "complete", "error", "cancelled"
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of clip-generation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ClipsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clips_generated_total",
			Help: "Total clips produced across all generation runs",
		},
	)

	// HTTP API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

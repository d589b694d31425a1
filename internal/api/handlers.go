// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/backup"
	"github.com/tomtom215/crateseek/internal/discovery"
	"github.com/tomtom215/crateseek/internal/pipeline"
	"github.com/tomtom215/crateseek/internal/simcache"
)

// maxSnapshotBytes bounds uploaded snapshot blobs.
const maxSnapshotBytes = 64 << 20

// Handler implements the HTTP endpoints.
type Handler struct {
	orchestrator *discovery.Orchestrator
	pipe         *pipeline.Pipeline
	cache        *simcache.Cache
	backups      *backup.Manager
	validate     *validator.Validate
	logger       zerolog.Logger

	mu         sync.Mutex
	generating bool
	lastResult *pipeline.Result
}

// NewHandler wires the handler to its collaborators. The backup
// manager may be nil when backups are disabled.
func NewHandler(orch *discovery.Orchestrator, pipe *pipeline.Pipeline, cache *simcache.Cache, backups *backup.Manager, logger zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		pipe:         pipe,
		cache:        cache,
		backups:      backups,
		validate:     validator.New(),
		logger:       logger.With().Str("component", "api").Logger(),
	}
}

// Discover handles POST /api/v1/discover.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req discovery.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	res, err := h.orchestrator.FindSimilar(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "DISCOVERY_FAILED", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Generate handles POST /api/v1/generate. The run executes in the
// background; a second request while one is active gets 409.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	h.mu.Lock()
	if h.generating || h.pipe.Busy() {
		h.mu.Unlock()
		respondError(w, http.StatusConflict, "GENERATION_IN_PROGRESS", pipeline.ErrGenerationInProgress.Error())
		return
	}
	h.generating = true
	h.mu.Unlock()

	go func() {
		res, err := h.pipe.Generate(context.Background(), req)

		h.mu.Lock()
		h.generating = false
		h.lastResult = &res
		h.mu.Unlock()

		if err != nil && !errors.Is(err, pipeline.ErrGenerationInProgress) {
			h.logger.Error().Err(err).Str("seed", req.Seed).Msg("generation failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "seed": req.Seed})
}

// GenerateCancel handles POST /api/v1/generate/cancel.
func (h *Handler) GenerateCancel(w http.ResponseWriter, _ *http.Request) {
	h.pipe.Cancel()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

// GenerateProgress handles GET /api/v1/generate/progress.
func (h *Handler) GenerateProgress(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.pipe.Progress())
}

// GenerateResult handles GET /api/v1/generate/result, returning the
// most recently finished run.
func (h *Handler) GenerateResult(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	res := h.lastResult
	h.mu.Unlock()

	if res == nil {
		respondError(w, http.StatusNotFound, "NO_RESULT", "no generation has finished yet")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Stats())
}

// CacheSnapshotExport handles GET /api/v1/cache/snapshot, streaming
// the raw snapshot blob.
func (h *Handler) CacheSnapshotExport(w http.ResponseWriter, _ *http.Request) {
	blob, err := h.cache.ExportSnapshot()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		h.logger.Error().Err(err).Msg("failed to write snapshot")
	}
}

// CacheSnapshotImport handles PUT /api/v1/cache/snapshot. Import is
// fail-closed: a corrupt blob leaves the cache untouched and gets 400.
func (h *Handler) CacheSnapshotImport(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "failed to read snapshot body")
		return
	}

	if err := h.cache.ImportSnapshot(blob); err != nil {
		if errors.Is(err, simcache.ErrSnapshotCorrupt) {
			respondError(w, http.StatusBadRequest, "SNAPSHOT_CORRUPT", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "IMPORT_FAILED", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"entries": h.cache.Len()})
}

// BackupCreate handles POST /api/v1/backups.
func (h *Handler) BackupCreate(w http.ResponseWriter, _ *http.Request) {
	if !h.backupsAvailable(w) {
		return
	}

	path, err := h.backups.Create()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "BACKUP_FAILED", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// BackupList handles GET /api/v1/backups.
func (h *Handler) BackupList(w http.ResponseWriter, _ *http.Request) {
	if !h.backupsAvailable(w) {
		return
	}

	backups, err := h.backups.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"backups": backups, "count": len(backups)})
}

// BackupRestore handles POST /api/v1/backups/restore, restoring the
// newest readable backup.
func (h *Handler) BackupRestore(w http.ResponseWriter, _ *http.Request) {
	if !h.backupsAvailable(w) {
		return
	}

	if err := h.backups.RestoreLatest(); err != nil {
		respondError(w, http.StatusInternalServerError, "RESTORE_FAILED", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"entries": h.cache.Len()})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"cache_entries": h.cache.Len(),
		"generating":    h.pipe.Busy(),
	})
}

func (h *Handler) backupsAvailable(w http.ResponseWriter) bool {
	if h.backups == nil {
		respondError(w, http.StatusServiceUnavailable, "BACKUPS_DISABLED", "backup manager is not enabled")
		return false
	}
	return true
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/simcache"
)

const (
	filePrefix = "simcache-"
	fileSuffix = ".json"

	timestampLayout = "20060102-150405"
)

// Info describes one backup file on disk.
type Info struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates, lists, prunes, and restores cache snapshot backups.
// It is safe for concurrent use.
type Manager struct {
	cfg    Config
	cache  *simcache.Cache
	logger zerolog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a Manager and ensures the backup directory exists.
func New(cfg Config, cache *simcache.Cache, logger zerolog.Logger, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backup config: %w", err)
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating backup dir %s: %w", cfg.Dir, err)
	}

	m := &Manager{
		cfg:    cfg,
		cache:  cache,
		logger: logger.With().Str("component", "backup").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create exports the cache and writes a new backup file atomically,
// returning its path.
func (m *Manager) Create() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, err := m.cache.ExportSnapshot()
	if err != nil {
		return "", fmt.Errorf("exporting snapshot: %w", err)
	}

	name := filePrefix + m.now().UTC().Format(timestampLayout) + fileSuffix
	path := filepath.Join(m.cfg.Dir, name)

	tmp, err := os.CreateTemp(m.cfg.Dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp backup file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing backup file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalizing backup file: %w", err)
	}

	m.logger.Info().Str("path", path).Int("bytes", len(blob)).Msg("backup created")
	return path, nil
}

// List returns the backups on disk, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}

	var out []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		ts, err := time.Parse(timestampLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}

		out = append(out, Info{
			Path:      filepath.Join(m.cfg.Dir, name),
			SizeBytes: fi.Size(),
			CreatedAt: ts,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Prune applies retention: keep the newest MaxBackups files, then drop
// anything older than MaxAgeDays. Returns the number removed.
func (m *Manager) Prune() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	backups, err := m.List()
	if err != nil {
		return 0, err
	}

	var cutoff time.Time
	if m.cfg.MaxAgeDays > 0 {
		cutoff = m.now().UTC().AddDate(0, 0, -m.cfg.MaxAgeDays)
	}

	removed := 0
	for i, b := range backups {
		overCount := i >= m.cfg.MaxBackups
		tooOld := m.cfg.MaxAgeDays > 0 && b.CreatedAt.Before(cutoff)
		if !overCount && !tooOld {
			continue
		}

		if err := os.Remove(b.Path); err != nil {
			m.logger.Warn().Err(err).Str("path", b.Path).Msg("failed to remove expired backup")
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("backup retention applied")
	}
	return removed, nil
}

// Restore imports a specific backup file into the cache. The import is
// fail-closed: a corrupt file leaves the cache untouched.
func (m *Manager) Restore(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", path, err)
	}
	if err := m.cache.ImportSnapshot(blob); err != nil {
		return fmt.Errorf("importing backup %s: %w", path, err)
	}

	m.logger.Info().Str("path", path).Msg("backup restored")
	return nil
}

// RestoreLatest restores the newest readable backup, skipping corrupt
// files. It is a no-op when no backups exist.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		m.logger.Debug().Msg("no backups to restore")
		return nil
	}

	var lastErr error
	for _, b := range backups {
		if err := m.Restore(b.Path); err != nil {
			m.logger.Warn().Err(err).Str("path", b.Path).Msg("skipping unreadable backup")
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no restorable backup found: %w", lastErr)
}

// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
)

// snapshotFormatVersion is bumped on incompatible snapshot layout changes.
const snapshotFormatVersion = 1

// ErrSnapshotCorrupt indicates an import blob failed validation.
// Import fails closed: the existing cache state is left untouched.
var ErrSnapshotCorrupt = errors.New("snapshot corrupt")

// Snapshot is the serialized form of the full cache state.
type Snapshot struct {
	// FormatVersion identifies the snapshot layout.
	FormatVersion int `json:"format_version"`

	// ExportedAt is when the snapshot was taken (unix seconds).
	ExportedAt int64 `json:"exported_at"`

	// Hits and Misses restore the running statistics.
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`

	// Entries is the full entry set, most recently accessed first.
	Entries []Entry `json:"entries"`
}

// ExportSnapshot serializes the full entry set and running statistics
// as a versioned blob. The export is a point-in-time best-effort copy:
// it is not transactional with concurrent mutation.
func (c *Cache) ExportSnapshot() ([]byte, error) {
	c.mu.Lock()

	snap := Snapshot{
		FormatVersion: snapshotFormatVersion,
		ExportedAt:    c.now().Unix(),
		Hits:          c.hits,
		Misses:        c.misses,
		Entries:       make([]Entry, 0, len(c.items)),
	}
	for n := c.head.next; n != c.tail; n = n.next {
		snap.Entries = append(snap.Entries, copyEntry(n.entry))
	}

	c.mu.Unlock()

	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return blob, nil
}

// ImportSnapshot fully replaces the cache state from a snapshot blob.
// There are no merge semantics. Malformed input fails closed: an error
// is returned and the current state is left untouched.
func (c *Cache) ImportSnapshot(blob []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	if snap.FormatVersion != snapshotFormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrSnapshotCorrupt, snap.FormatVersion)
	}

	if err := validateSnapshotEntries(snap.Entries); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Rebuild the recency list. Entries are exported most recently
	// accessed first, so appending at the back preserves order.
	c.items = make(map[string]*node, len(snap.Entries))
	c.head.next = c.tail
	c.tail.prev = c.head

	for i := len(snap.Entries) - 1; i >= 0; i-- {
		e := snap.Entries[i]
		e.Key = artist.NormalizeName(e.Key)
		if _, dup := c.items[e.Key]; dup {
			continue
		}
		n := &node{entry: e}
		c.addToFront(n)
		c.items[e.Key] = n
	}

	c.hits = snap.Hits
	c.misses = snap.Misses
	metrics.CacheEntries.Set(float64(len(c.items)))

	c.logger.Info().
		Int("entries", len(c.items)).
		Msg("imported cache snapshot")

	return nil
}

// validateSnapshotEntries rejects snapshots with structurally invalid
// entries before any state is replaced.
func validateSnapshotEntries(entries []Entry) error {
	for i, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("entry %d: empty key", i)
		}
		if e.ExpiresAt.Before(e.CreatedAt) {
			return fmt.Errorf("entry %d (%s): expires before creation", i, e.Key)
		}
		switch e.Tier {
		case TierHigh, TierMedium, TierLow:
		default:
			return fmt.Errorf("entry %d (%s): unknown tier %q", i, e.Key, e.Tier)
		}
		for j, r := range e.Records {
			if r.Similarity < 0 || r.Similarity > 1 {
				return fmt.Errorf("entry %d (%s): record %d similarity %v out of range", i, e.Key, j, r.Similarity)
			}
		}
	}
	return nil
}

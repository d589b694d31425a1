// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"sort"
	"time"
)

// topListSize bounds the most-popular and most-recent lists in Stats.
const topListSize = 10

// ArtistStat is a per-artist statistics row.
type ArtistStat struct {
	// Artist is the normalized artist name.
	Artist string `json:"artist"`

	// AccessCount is how often the entry has been hit.
	AccessCount int64 `json:"access_count"`

	// LastAccessedAt is the most recent hit time.
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Stats is the cache statistics surface.
type Stats struct {
	// Entries is the current entry count.
	Entries int `json:"entries"`

	// Hits and Misses are running totals since startup or last import.
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`

	// HitRate is Hits / (Hits + Misses), or 0 with no lookups yet.
	HitRate float64 `json:"hit_rate"`

	// MostPopular lists the entries with the highest access counts.
	MostPopular []ArtistStat `json:"most_popular"`

	// RecentlyAccessed lists the most recently hit entries.
	RecentlyAccessed []ArtistStat `json:"recently_accessed"`

	// ExpiringSoon counts entries that expire within the next 24 hours.
	ExpiringSoon int `json:"expiring_soon"`
}

// Stats returns a point-in-time statistics snapshot.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	horizon := now.Add(24 * time.Hour)

	all := make([]ArtistStat, 0, len(c.items))
	recent := make([]ArtistStat, 0, topListSize)
	expiring := 0

	for n := c.head.next; n != c.tail; n = n.next {
		e := n.entry
		all = append(all, ArtistStat{
			Artist:         e.Key,
			AccessCount:    e.AccessCount,
			LastAccessedAt: e.LastAccessedAt,
		})
		if e.ExpiresAt.After(now) && e.ExpiresAt.Before(horizon) {
			expiring++
		}
		// The recency list front is the most recently accessed.
		if len(recent) < topListSize {
			recent = append(recent, ArtistStat{
				Artist:         e.Key,
				AccessCount:    e.AccessCount,
				LastAccessedAt: e.LastAccessedAt,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].AccessCount > all[j].AccessCount
	})
	if len(all) > topListSize {
		all = all[:topListSize]
	}

	s := Stats{
		Entries:          len(c.items),
		Hits:             c.hits,
		Misses:           c.misses,
		MostPopular:      all,
		RecentlyAccessed: recent,
		ExpiringSoon:     expiring,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

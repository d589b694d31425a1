// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
)

// Tier classifies how popular a cached artist is. The tier drives the
// entry's time-to-live: frequently requested or richly populated
// entries stay cached longer.
type Tier string

const (
	// TierHigh is assigned for >= 10 accesses, mean similarity > 0.8,
	// or more than 40 records.
	TierHigh Tier = "high"

	// TierMedium is assigned for >= 3 accesses, mean similarity > 0.6,
	// or more than 20 records.
	TierMedium Tier = "medium"

	// TierLow is everything else.
	TierLow Tier = "low"
)

// Popularity classification thresholds. Empirical heuristics, tunable
// only through code on purpose: they describe the tier, not the TTL.
const (
	highAccessCount   = 10
	highMeanSim       = 0.8
	highRecordCount   = 40
	mediumAccessCount = 3
	mediumMeanSim     = 0.6
	mediumRecordCount = 20
)

// classifyTier derives the popularity tier from three signals: how
// often the key has been requested so far, the mean similarity of the
// stored records, and how many records the source produced.
func classifyTier(accessCount int64, meanSim float64, recordCount int) Tier {
	switch {
	case accessCount >= highAccessCount || meanSim > highMeanSim || recordCount > highRecordCount:
		return TierHigh
	case accessCount >= mediumAccessCount || meanSim > mediumMeanSim || recordCount > mediumRecordCount:
		return TierMedium
	default:
		return TierLow
	}
}

// Entry is a cached similar-artist result set plus access metadata.
type Entry struct {
	// Key is the normalized artist name.
	Key string `json:"key"`

	// Records is the similar-artist list stored for the key.
	Records []artist.SimilarArtist `json:"records"`

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the entry becomes stale.
	ExpiresAt time.Time `json:"expires_at"`

	// Tier is the popularity classification at store time.
	Tier Tier `json:"tier"`

	// LastAccessedAt is updated on every cache hit.
	LastAccessedAt time.Time `json:"last_accessed_at"`

	// AccessCount is incremented on every cache hit.
	AccessCount int64 `json:"access_count"`

	// SourceID identifies the discovery source that produced the records.
	SourceID string `json:"source_id,omitempty"`

	// SourceCallCount is how many upstream calls the source spent.
	SourceCallCount int `json:"source_call_count,omitempty"`
}

// SourceMeta describes the discovery source behind a Put.
type SourceMeta struct {
	// SourceID identifies the source (e.g. "external", "curated").
	SourceID string

	// CallCount is how many upstream calls the source made.
	CallCount int
}

// node is a doubly-linked list node wrapping an entry.
// head.next is the most recently accessed, tail.prev the least.
// New entries are inserted at the front, so among never-accessed
// entries eviction order falls back to insertion order.
type node struct {
	entry Entry
	prev  *node
	next  *node
}

// Cache is the thread-safe similarity cache with tiered TTL and
// capacity-bounded LRU eviction.
type Cache struct {
	mu sync.Mutex

	cfg    Config
	logger zerolog.Logger

	// items maps normalized artist names to list nodes for O(1) lookup.
	items map[string]*node

	// head and tail are sentinel nodes for the recency list.
	head *node
	tail *node

	// Running statistics, preserved across snapshots.
	hits   int64
	misses int64

	// now is the clock; injectable for tests.
	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the cache's time source. Tests use this to
// advance time past entry expirations deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a similarity cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Cache{
		cfg:    cfg,
		logger: logger.With().Str("component", "simcache").Logger(),
		items:  make(map[string]*node, cfg.MaxEntries),
		head:   &node{},
		tail:   &node{},
		now:    time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get returns the entry for an artist, or false on a miss. Expired
// entries are evicted lazily and reported as misses. A hit updates the
// entry's access metadata and moves it to the front of the recency
// list.
func (c *Cache) Get(name string) (Entry, bool) {
	key := artist.NormalizeName(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.Inc()
		return Entry{}, false
	}

	now := c.now()
	if now.After(n.entry.ExpiresAt) {
		c.removeNode(n)
		metrics.CacheEvictions.WithLabelValues("expired").Inc()
		metrics.CacheEntries.Set(float64(len(c.items)))
		c.misses++
		metrics.CacheMisses.Inc()
		return Entry{}, false
	}

	n.entry.LastAccessedAt = now
	n.entry.AccessCount++
	c.moveToFront(n)
	c.hits++
	metrics.CacheHits.Inc()

	return copyEntry(n.entry), true
}

// Put stores a similar-artist result set for an artist. The entry's
// popularity tier is classified from the key's access count so far,
// the mean similarity of the records, and the record count; the tier
// picks the TTL. Storing over capacity triggers eviction: expired
// entries first, then least-recently-accessed.
func (c *Cache) Put(name string, records []artist.SimilarArtist, meta SourceMeta) Entry {
	key := artist.NormalizeName(name)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Access count carried over from the entry being replaced, if any.
	var priorAccess int64
	var priorLastAccess time.Time
	if old, ok := c.items[key]; ok {
		priorAccess = old.entry.AccessCount
		priorLastAccess = old.entry.LastAccessedAt
		c.removeNode(old)
	}

	tier := classifyTier(priorAccess, artist.MeanSimilarity(records), len(records))

	entry := Entry{
		Key:             key,
		Records:         append([]artist.SimilarArtist(nil), records...),
		CreatedAt:       now,
		ExpiresAt:       now.Add(c.ttlFor(tier)),
		Tier:            tier,
		LastAccessedAt:  priorLastAccess,
		AccessCount:     priorAccess,
		SourceID:        meta.SourceID,
		SourceCallCount: meta.CallCount,
	}

	n := &node{entry: entry}
	c.addToFront(n)
	c.items[key] = n

	if len(c.items) > c.cfg.MaxEntries {
		c.evictLocked(now)
	}
	metrics.CacheEntries.Set(float64(len(c.items)))

	c.logger.Debug().
		Str("artist", key).
		Str("tier", string(tier)).
		Int("records", len(records)).
		Str("source", meta.SourceID).
		Msg("cached similar artists")

	return copyEntry(entry)
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sweep removes all expired entries and returns how many were removed.
// The background sweeper calls this periodically; it performs the same
// cleanup a lazy read would.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.removeExpiredLocked(c.now())
	metrics.CacheEntries.Set(float64(len(c.items)))

	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("sweep removed expired entries")
	}
	return removed
}

// ttlFor maps a popularity tier to its configured TTL.
func (c *Cache) ttlFor(tier Tier) time.Duration {
	switch tier {
	case TierHigh:
		return c.cfg.HighTTL
	case TierMedium:
		return c.cfg.MediumTTL
	default:
		return c.cfg.LowTTL
	}
}

// evictLocked enforces the capacity cap: expired entries are removed
// first; if still over capacity, least-recently-accessed entries go
// until the store fits. Must be called with mu held.
func (c *Cache) evictLocked(now time.Time) {
	c.removeExpiredLocked(now)

	for len(c.items) > c.cfg.MaxEntries {
		oldest := c.tail.prev
		if oldest == c.head {
			return
		}
		c.removeNode(oldest)
		metrics.CacheEvictions.WithLabelValues("capacity").Inc()
	}
}

// removeExpiredLocked removes every expired entry. Must be called with
// mu held.
func (c *Cache) removeExpiredLocked(now time.Time) int {
	removed := 0
	for n := c.tail.prev; n != c.head; {
		prev := n.prev
		if now.After(n.entry.ExpiresAt) {
			c.removeNode(n)
			metrics.CacheEvictions.WithLabelValues("expired").Inc()
			removed++
		}
		n = prev
	}
	return removed
}

// Internal list operations (must be called with mu held).

func (c *Cache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *Cache) moveToFront(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	c.addToFront(n)
}

func (c *Cache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	delete(c.items, n.entry.Key)
}

// copyEntry returns an entry copy with its own records slice, so
// callers cannot mutate cached state.
func copyEntry(e Entry) Entry {
	e.Records = append([]artist.SimilarArtist(nil), e.Records...)
	return e
}

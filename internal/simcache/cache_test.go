// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package simcache

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crateseek/internal/artist"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, cfg Config, clock *fakeClock) *Cache {
	t.Helper()
	c, err := New(cfg, zerolog.Nop(), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func records(sims ...float64) []artist.SimilarArtist {
	out := make([]artist.SimilarArtist, len(sims))
	for i, s := range sims {
		out[i] = artist.SimilarArtist{Name: string(rune('A' + i)), Similarity: s}
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}, wantErr: false},
		{name: "zero capacity", mutate: func(c *Config) { c.MaxEntries = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.LowTTL = -time.Hour }, wantErr: true},
		{name: "inverted tiers", mutate: func(c *Config) { c.LowTTL = c.HighTTL * 2 }, wantErr: true},
		{name: "zero sweep interval", mutate: func(c *Config) { c.SweepInterval = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, DefaultConfig(), clock)

	recs := []artist.SimilarArtist{
		{Name: "Justice", Similarity: 0.9, Genres: []string{"electronic"}},
		{Name: "Moderat", Similarity: 0.7, Genres: []string{"electronic", "idm"}},
	}
	c.Put("Daft Punk", recs, SourceMeta{SourceID: "curated", CallCount: 1})

	got, ok := c.Get("daft  punk") // key normalization
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if len(got.Records) != 2 || got.Records[0].Name != "Justice" || got.Records[1].Similarity != 0.7 {
		t.Errorf("Get() records = %+v, want round-tripped records", got.Records)
	}
	if got.SourceID != "curated" {
		t.Errorf("Get() source = %q, want curated", got.SourceID)
	}
	if got.AccessCount != 1 {
		t.Errorf("Get() access count = %d, want 1", got.AccessCount)
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, DefaultConfig(), newFakeClock())
	if _, ok := c.Get("nobody"); ok {
		t.Error("Get() hit on unknown key, want miss")
	}
}

func TestExpiryIsLazy(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, DefaultConfig(), clock)

	// 5 low-similarity records lands in the low tier (7 day TTL).
	c.Put("Air", records(0.3, 0.3, 0.3, 0.3, 0.3), SourceMeta{SourceID: "curated"})

	if _, ok := c.Get("Air"); !ok {
		t.Fatal("Get() miss before expiry, want hit")
	}

	clock.Advance(7*24*time.Hour + time.Minute)

	if _, ok := c.Get("Air"); ok {
		t.Error("Get() hit after expiry, want miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy eviction, want 0", c.Len())
	}
}

func TestClassifyTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		accessCount int64
		meanSim     float64
		recordCount int
		want        Tier
	}{
		{name: "high by access count", accessCount: 11, meanSim: 0.1, recordCount: 1, want: TierHigh},
		{name: "high by mean similarity", accessCount: 0, meanSim: 0.85, recordCount: 1, want: TierHigh},
		{name: "high by record count", accessCount: 0, meanSim: 0.1, recordCount: 41, want: TierHigh},
		{name: "medium by access count", accessCount: 3, meanSim: 0.1, recordCount: 1, want: TierMedium},
		{name: "medium by mean similarity", accessCount: 0, meanSim: 0.65, recordCount: 1, want: TierMedium},
		{name: "medium by record count", accessCount: 0, meanSim: 0.1, recordCount: 21, want: TierMedium},
		{name: "low otherwise", accessCount: 1, meanSim: 0.3, recordCount: 5, want: TierLow},
		{name: "boundary access ten is high", accessCount: 10, meanSim: 0, recordCount: 0, want: TierHigh},
		{name: "boundary mean 0.8 is medium", accessCount: 0, meanSim: 0.8, recordCount: 0, want: TierMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyTier(tt.accessCount, tt.meanSim, tt.recordCount); got != tt.want {
				t.Errorf("classifyTier(%d, %v, %d) = %v, want %v",
					tt.accessCount, tt.meanSim, tt.recordCount, got, tt.want)
			}
		})
	}
}

func TestTTLAssignmentByTier(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cfg := DefaultConfig()
	c := newTestCache(t, cfg, clock)

	// Access count 11 forces the high tier regardless of similarity.
	c.Put("Queen", records(0.3), SourceMeta{})
	for i := 0; i < 11; i++ {
		c.Get("Queen")
	}
	e := c.Put("Queen", records(0.3), SourceMeta{})
	if e.Tier != TierHigh {
		t.Errorf("tier after 11 accesses = %v, want high", e.Tier)
	}
	if got := e.ExpiresAt.Sub(e.CreatedAt); got != cfg.HighTTL {
		t.Errorf("high-tier TTL = %v, want %v", got, cfg.HighTTL)
	}

	// One access, mean similarity 0.3, 5 records: low tier.
	e = c.Put("Unknown Act", records(0.3, 0.3, 0.3, 0.3, 0.3), SourceMeta{})
	if e.Tier != TierLow {
		t.Errorf("tier = %v, want low", e.Tier)
	}
	if got := e.ExpiresAt.Sub(e.CreatedAt); got != cfg.LowTTL {
		t.Errorf("low-tier TTL = %v, want %v", got, cfg.LowTTL)
	}
}

func TestCapacityEvictionIsLRU(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	c := newTestCache(t, cfg, clock)

	c.Put("a", records(0.5), SourceMeta{})
	c.Put("b", records(0.5), SourceMeta{})

	// Touch "a" so "b" becomes the least recently accessed.
	c.Get("a")

	c.Put("c", records(0.5), SourceMeta{})

	if _, ok := c.Get("b"); ok {
		t.Error("least-recently-accessed entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently accessed entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newly inserted entry was evicted")
	}
}

func TestCapacityEvictionInsertionOrderTieBreak(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	c := newTestCache(t, cfg, clock)

	// No entry is ever accessed: eviction falls back to insertion order.
	c.Put("first", records(0.5), SourceMeta{})
	c.Put("second", records(0.5), SourceMeta{})
	c.Put("third", records(0.5), SourceMeta{})

	if _, ok := c.Get("first"); ok {
		t.Error("oldest inserted entry survived tie-break eviction")
	}
	if _, ok := c.Get("second"); !ok {
		t.Error("newer entry evicted before older one")
	}
}

func TestEvictionRemovesExpiredFirst(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	c := newTestCache(t, cfg, clock)

	c.Put("stale", records(0.3, 0.3, 0.3), SourceMeta{}) // low tier, 7d
	clock.Advance(8 * 24 * time.Hour)

	c.Put("fresh", records(0.5), SourceMeta{})
	c.Put("newer", records(0.5), SourceMeta{})

	// Capacity is 2 and "stale" is expired: the expired entry must be
	// the one removed, not the least recently used live entry.
	if _, ok := c.Get("fresh"); !ok {
		t.Error("live entry evicted while an expired entry existed")
	}
	if _, ok := c.Get("newer"); !ok {
		t.Error("live entry evicted while an expired entry existed")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, DefaultConfig(), clock)

	c.Put("short lived", records(0.3, 0.3), SourceMeta{}) // low, 7d
	c.Put("long lived", records(0.9, 0.9), SourceMeta{})  // high, 30d

	clock.Advance(8 * 24 * time.Hour)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", c.Len())
	}
}

func TestPutRecordsCopyIsolated(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, DefaultConfig(), newFakeClock())

	recs := records(0.9)
	c.Put("x", recs, SourceMeta{})
	recs[0].Similarity = 0.0

	got, _ := c.Get("x")
	if got.Records[0].Similarity != 0.9 {
		t.Error("cached records aliased the caller's slice")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, DefaultConfig(), clock)

	c.Put("popular", records(0.9), SourceMeta{})
	c.Put("quiet", records(0.3, 0.3), SourceMeta{})

	for i := 0; i < 4; i++ {
		c.Get("popular")
	}
	c.Get("missing")

	s := c.Stats()

	if s.Entries != 2 {
		t.Errorf("Stats().Entries = %d, want 2", s.Entries)
	}
	if s.Hits != 4 || s.Misses != 1 {
		t.Errorf("Stats() hits/misses = %d/%d, want 4/1", s.Hits, s.Misses)
	}
	if want := 4.0 / 5.0; s.HitRate != want {
		t.Errorf("Stats().HitRate = %v, want %v", s.HitRate, want)
	}
	if len(s.MostPopular) == 0 || s.MostPopular[0].Artist != "popular" {
		t.Errorf("Stats().MostPopular = %+v, want popular first", s.MostPopular)
	}
	if len(s.RecentlyAccessed) == 0 || s.RecentlyAccessed[0].Artist != "popular" {
		t.Errorf("Stats().RecentlyAccessed = %+v, want popular first", s.RecentlyAccessed)
	}

	// Low tier expires in 7 days; 24h before that it counts as expiring.
	clock.Advance(7*24*time.Hour - 12*time.Hour)
	if got := c.Stats().ExpiringSoon; got != 1 {
		t.Errorf("Stats().ExpiringSoon = %d, want 1", got)
	}
}

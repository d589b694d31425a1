// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newExternalTestServer serves canned similar-artist responses keyed
// by the requested artist name.
func newExternalTestServer(t *testing.T, responses map[string]string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if got := r.URL.Query().Get("method"); got != "artist.getsimilar" {
			t.Errorf("method query param = %q, want artist.getsimilar", got)
		}
		body, ok := responses[r.URL.Query().Get("artist")]
		if !ok {
			body = `{"results": []}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func newTestExternalSource(t *testing.T, baseURL string, maxCalls int) *ExternalSource {
	t.Helper()
	cfg := DefaultExternalConfig()
	cfg.BaseURL = baseURL
	cfg.CallDelay = 0 // no throttling in tests
	cfg.MaxCalls = maxCalls
	src, err := NewExternalSource(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewExternalSource() error = %v", err)
	}
	return src
}

func TestExternalConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*ExternalConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *ExternalConfig) { c.BaseURL = "http://localhost:1234" }, wantErr: false},
		{name: "missing base url", mutate: func(*ExternalConfig) {}, wantErr: true},
		{name: "zero timeout", mutate: func(c *ExternalConfig) {
			c.BaseURL = "http://localhost:1234"
			c.Timeout = 0
		}, wantErr: true},
		{name: "zero max calls", mutate: func(c *ExternalConfig) {
			c.BaseURL = "http://localhost:1234"
			c.MaxCalls = 0
		}, wantErr: true},
		{name: "negative delay", mutate: func(c *ExternalConfig) {
			c.BaseURL = "http://localhost:1234"
			c.CallDelay = -time.Second
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultExternalConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExternalPrimaryLookup(t *testing.T) {
	t.Parallel()

	server := newExternalTestServer(t, map[string]string{
		"Seed": `{"results": [
			{"name": "Alpha", "match_score": "0.90"},
			{"name": "Beta", "match_score": "0.75"},
			{"name": "Seed", "match_score": "1.00"},
			{"name": "alpha", "match_score": "0.50"}
		]}`,
	}, nil)
	defer server.Close()

	src := newTestExternalSource(t, server.URL, 1)
	records, err := src.FindSimilar(context.Background(), "Seed", 10)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}

	// Seed and the duplicate "alpha" are skipped.
	if len(records) != 2 {
		t.Fatalf("FindSimilar() = %d records, want 2: %+v", len(records), records)
	}
	if records[0].Name != "Alpha" || records[0].Similarity != 0.9 {
		t.Errorf("records[0] = %+v, want Alpha/0.9", records[0])
	}
	if records[1].Name != "Beta" || records[1].Similarity != 0.75 {
		t.Errorf("records[1] = %+v, want Beta/0.75", records[1])
	}
}

func TestExternalSecondaryLookupDiscount(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newExternalTestServer(t, map[string]string{
		"Seed": `{"results": [{"name": "Alpha", "match_score": "0.90"}]}`,
		"Alpha": `{"results": [
			{"name": "Gamma", "match_score": "0.80"},
			{"name": "Seed", "match_score": "0.99"},
			{"name": "Alpha", "match_score": "1.00"}
		]}`,
	}, &calls)
	defer server.Close()

	src := newTestExternalSource(t, server.URL, 4)
	records, err := src.FindSimilar(context.Background(), "Seed", 10)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("FindSimilar() = %d records, want 2: %+v", len(records), records)
	}

	// Secondary records carry the 0.7 discount; seed and already
	// collected names are skipped.
	want := 0.8 * secondaryDiscount
	if diff := records[1].Similarity - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("secondary similarity = %v, want %v", records[1].Similarity, want)
	}
	if records[1].Name != "Gamma" {
		t.Errorf("secondary record = %q, want Gamma", records[1].Name)
	}
}

func TestExternalMaxCallsRespected(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newExternalTestServer(t, map[string]string{
		"Seed": `{"results": [
			{"name": "A", "match_score": "0.9"},
			{"name": "B", "match_score": "0.8"},
			{"name": "C", "match_score": "0.7"}
		]}`,
	}, &calls)
	defer server.Close()

	// Target of 50 can never be met; calls must stop at MaxCalls.
	src := newTestExternalSource(t, server.URL, 2)
	if _, err := src.FindSimilar(context.Background(), "Seed", 50); err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestExternalMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer server.Close()

	src := newTestExternalSource(t, server.URL, 1)
	if _, err := src.FindSimilar(context.Background(), "Seed", 10); err == nil {
		t.Error("FindSimilar() = nil error for malformed response, want error")
	}
}

func TestExternalRateLimitedStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := newTestExternalSource(t, server.URL, 1)
	if _, err := src.FindSimilar(context.Background(), "Seed", 10); err == nil {
		t.Error("FindSimilar() = nil error for 429, want error")
	}
}

func TestExternalUnparseableScoreDegrades(t *testing.T) {
	t.Parallel()

	server := newExternalTestServer(t, map[string]string{
		"Seed": `{"results": [{"name": "Alpha", "match_score": "not-a-number"}]}`,
	}, nil)
	defer server.Close()

	src := newTestExternalSource(t, server.URL, 1)
	records, err := src.FindSimilar(context.Background(), "Seed", 10)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(records) != 1 || records[0].Similarity != 0 {
		t.Errorf("records = %+v, want single zero-similarity record", records)
	}
}

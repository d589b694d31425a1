// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
)

// secondaryDiscount is applied to similarities merged in from
// secondary lookups: a neighbor-of-a-neighbor is a weaker signal than
// a direct neighbor.
const secondaryDiscount = 0.7

// ExternalConfig holds external similarity API configuration.
type ExternalConfig struct {
	// BaseURL is the API root, e.g. "https://ws.audioscrobbler.example/2.0".
	BaseURL string `json:"base_url" koanf:"base_url"`

	// APIKey authenticates requests. Optional for self-hosted mirrors.
	APIKey string `json:"api_key" koanf:"api_key"`

	// Timeout bounds a single HTTP call. Default: 10s.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// CallDelay is the minimum delay between API calls, respected
	// even across concurrent callers. Default: 250ms.
	CallDelay time.Duration `json:"call_delay" koanf:"call_delay"`

	// MaxCalls caps upstream calls per discovery request (the initial
	// lookup plus secondary lookups). Default: 4.
	MaxCalls int `json:"max_calls" koanf:"max_calls"`
}

// DefaultExternalConfig returns the default external source configuration.
func DefaultExternalConfig() ExternalConfig {
	return ExternalConfig{
		Timeout:   10 * time.Second,
		CallDelay: 250 * time.Millisecond,
		MaxCalls:  4,
	}
}

// Validate checks the configuration for invalid values.
func (c ExternalConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CallDelay < 0 {
		return fmt.Errorf("call_delay must not be negative, got %s", c.CallDelay)
	}
	if c.MaxCalls <= 0 {
		return fmt.Errorf("max_calls must be positive, got %d", c.MaxCalls)
	}
	return nil
}

// similarResponse is the external API's wire format.
type similarResponse struct {
	Results []similarResult `json:"results"`
}

// similarResult is a single wire-format record. MatchScore arrives as
// a decimal string in [0, 1].
type similarResult struct {
	Name       string `json:"name"`
	MatchScore string `json:"match_score"`
	RelatedURL string `json:"related_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// ExternalSource queries a remote similarity API. All calls are
// serialized behind a rate limiter honoring the configured minimum
// delay, and wrapped in a circuit breaker so a struggling upstream
// degrades into empty results instead of hammering retries.
type ExternalSource struct {
	cfg     ExternalConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]similarResult]
	logger  zerolog.Logger
}

// NewExternalSource creates the external similarity source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewExternalSource(cfg ExternalConfig, logger zerolog.Logger) (*ExternalSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	limit := rate.Inf
	if cfg.CallDelay > 0 {
		limit = rate.Every(cfg.CallDelay)
	}

	s := &ExternalSource{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "discovery-external").Logger(),
	}

	breakerName := "similarity-api"
	s.breaker = gobreaker.NewCircuitBreaker[[]similarResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return s, nil
}

// breakerStateValue maps a breaker state to its gauge value.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Name returns the source identifier.
func (s *ExternalSource) Name() string {
	return SourceExternal
}

// FindSimilar performs an initial lookup for the seed artist and, if
// the target count is not met, secondary lookups on the top few
// results. Secondary records merge with a similarity discount,
// skipping names already collected or equal to the seed.
func (s *ExternalSource) FindSimilar(ctx context.Context, seed string, limit int) ([]artist.SimilarArtist, error) {
	if limit <= 0 {
		limit = DefaultConfig().MaxResults
	}

	primary, err := s.call(ctx, seed, limit)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{artist.NormalizeName(seed): {}}
	records := make([]artist.SimilarArtist, 0, limit)
	for _, r := range primary {
		key := artist.NormalizeName(r.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, toRecord(r, 1))
	}

	// Widen thin result sets by looking up the strongest neighbors.
	calls := 1
	for i := 0; i < len(primary) && len(records) < limit && calls < s.cfg.MaxCalls; i++ {
		secondary, err := s.call(ctx, primary[i].Name, limit)
		calls++
		if err != nil {
			// Keep what we have: a partial result beats none.
			s.logger.Warn().Err(err).Str("artist", primary[i].Name).Msg("secondary lookup failed")
			break
		}

		for _, r := range secondary {
			key := artist.NormalizeName(r.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, toRecord(r, secondaryDiscount))
			if len(records) >= limit {
				break
			}
		}
	}

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// call performs one rate-limited API request through the breaker.
func (s *ExternalSource) call(ctx context.Context, name string, limit int) ([]similarResult, error) {
	if s.limiter.Tokens() < 1 {
		metrics.ExternalAPIRateLimitWaits.Inc()
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	return s.breaker.Execute(func() ([]similarResult, error) {
		return s.doCall(ctx, name, limit)
	})
}

// doCall issues the HTTP request and decodes the response.
func (s *ExternalSource) doCall(ctx context.Context, name string, limit int) ([]similarResult, error) {
	query := url.Values{}
	query.Set("method", "artist.getsimilar")
	query.Set("artist", name)
	query.Set("limit", strconv.Itoa(limit))
	if s.cfg.APIKey != "" {
		query.Set("api_key", s.cfg.APIKey)
	}

	reqURL := s.cfg.BaseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("similarity api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("similarity api rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var decoded similarResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Results, nil
}

// toRecord converts a wire result to a domain record, applying the
// given similarity factor and clamping to [0, 1]. An unparseable
// match score degrades to zero similarity rather than failing the
// whole response.
func toRecord(r similarResult, factor float64) artist.SimilarArtist {
	score, err := strconv.ParseFloat(r.MatchScore, 64)
	if err != nil {
		score = 0
	}
	return artist.SimilarArtist{
		Name:       r.Name,
		Similarity: artist.ClampSimilarity(score * factor),
		SourceID:   SourceExternal,
	}
}

var _ Source = (*ExternalSource)(nil)

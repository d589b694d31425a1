// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package videosource

import (
	"bytes"
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

	"github.com/tomtom215/crateseek/internal/metrics"
	"github.com/tomtom215/crateseek/internal/pipeline"
)

// Config holds video catalog API configuration.
type Config struct {
	// BaseURL is the catalog API root. Empty disables video search.
	BaseURL string `json:"base_url" koanf:"base_url"`

	// APIKey authenticates requests. Optional for self-hosted catalogs.
	APIKey string `json:"api_key" koanf:"api_key"`

	// Timeout bounds a single HTTP call. Default: 15s.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// CallDelay is the minimum delay between API calls. Default: 200ms.
	CallDelay time.Duration `json:"call_delay" koanf:"call_delay"`
}

// DefaultConfig returns the default catalog client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		CallDelay: 200 * time.Millisecond,
	}
}

// Validate checks the configuration for invalid values. An empty
// BaseURL is valid: it means the catalog is not configured.
func (c Config) Validate() error {
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CallDelay < 0 {
		return fmt.Errorf("call_delay must not be negative, got %s", c.CallDelay)
	}
	return nil
}

// searchResponse is the catalog API's search wire format.
type searchResponse struct {
	Videos []videoResult `json:"videos"`
}

type videoResult struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ChannelName     string `json:"channel_name"`
	DurationSeconds int    `json:"duration_seconds"`
	ViewCount       int64  `json:"view_count"`
	Official        bool   `json:"official"`
	Remix           bool   `json:"remix"`
}

// clipRequest is the catalog API's clip creation wire format.
type clipRequest struct {
	VideoID         string `json:"video_id"`
	StartSeconds    int    `json:"start_seconds"`
	DurationSeconds int    `json:"duration_seconds"`
}

type clipResponse struct {
	ClipID string `json:"clip_id"`
}

// Client talks to a remote video catalog. It implements both
// pipeline.VideoSearcher and pipeline.ClipCreator.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  zerolog.Logger
}

// NewClient creates a catalog client. The BaseURL must be set; use
// Disabled when no catalog is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}

	limit := rate.Inf
	if cfg.CallDelay > 0 {
		limit = rate.Every(cfg.CallDelay)
	}

	c := &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "videosource").Logger(),
	}

	breakerName := "video-api"
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
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
			c.logger.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return c, nil
}

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

// Search queries the catalog for videos matching the query text.
func (c *Client) Search(ctx context.Context, query pipeline.SearchQuery, opts pipeline.SearchOptions) ([]pipeline.VideoCandidate, error) {
	params := url.Values{}
	params.Set("q", query.Text)
	if opts.MaxResults > 0 {
		params.Set("max", strconv.Itoa(opts.MaxResults))
	}
	if opts.DurationClass != "" {
		params.Set("duration", opts.DurationClass)
	}

	resp, err := c.do(ctx, http.MethodGet, "/v1/videos/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	candidates := make([]pipeline.VideoCandidate, 0, len(decoded.Videos))
	for _, v := range decoded.Videos {
		if v.ID == "" {
			continue
		}
		candidates = append(candidates, pipeline.VideoCandidate{
			ID:              v.ID,
			Title:           v.Title,
			ChannelName:     v.ChannelName,
			DurationSeconds: v.DurationSeconds,
			ViewCount:       v.ViewCount,
			IsOfficial:      v.Official,
			IsRemix:         v.Remix,
		})
	}
	return candidates, nil
}

// CreateClip asks the catalog to materialize a clip and returns the
// catalog's clip handle.
func (c *Client) CreateClip(ctx context.Context, video pipeline.VideoCandidate, startSeconds, durationSeconds int) (string, error) {
	body, err := json.Marshal(clipRequest{
		VideoID:         video.ID,
		StartSeconds:    startSeconds,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		return "", fmt.Errorf("encode clip request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/clips", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded clipResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode clip response: %w", err)
	}
	if decoded.ClipID == "" {
		return "", fmt.Errorf("catalog returned empty clip id")
	}
	return decoded.ClipID, nil
}

// do performs one rate-limited request through the breaker. The caller
// owns the response body on success.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if c.limiter.Tokens() < 1 {
		metrics.ExternalAPIRateLimitWaits.Inc()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	return c.breaker.Execute(func() (*http.Response, error) {
		var reader *bytes.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("video api: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, fmt.Errorf("video api rate limited (429)")
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
		}
		return resp, nil
	})
}

var (
	_ pipeline.VideoSearcher = (*Client)(nil)
	_ pipeline.ClipCreator   = (*Client)(nil)
)

// Package searx provides a web search adapter backed by a SearxNG
// instance's JSON API.
package searx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.WebSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 15 * time.Second

	// Public SearxNG instances throttle aggressively, so stay polite.
	DefaultRequestsPerSecond = 1.0
	DefaultBurstSize         = 2
)

// Config holds configuration for the SearxNG client.
type Config struct {
	// BaseURL is the SearxNG instance URL (required).
	BaseURL string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate (default: 1).
	RequestsPerSecond float64

	// BurstSize is the maximum burst size (default: 2).
	BurstSize int
}

// Client queries a SearxNG instance for web results.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// searchResponse is the SearxNG JSON API response format.
type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// NewClient creates a new SearxNG web search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("searx: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}, nil
}

// Search returns up to limit ranked results with attributions.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	if query == "" {
		return nil, fmt.Errorf("searx: %w: empty query", domain.ErrInvalidInput)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("searx: rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/search?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("searx: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searx: %w: %v", domain.ErrWebSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("searx: %w: status %d: %s", domain.ErrWebSearchUnavailable, resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("searx: decode response: %w", err)
	}

	results := make([]domain.WebResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, domain.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Score:   r.Score,
		})
	}

	return results, nil
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}

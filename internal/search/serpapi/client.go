// Package serpapi implements the search collaborator against a SerpAPI-style
// HTTP endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// Config controls the search client.
type Config struct {
	Endpoint        string
	APIKey          string
	ResultsPerQuery int
	Timeout         time.Duration
}

// Client issues ranked-result queries over HTTP.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a Client. The API key is required; without it every call would
// fail with an auth error anyway, so fail fast.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("search endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search api key is required")
	}
	if cfg.ResultsPerQuery <= 0 {
		cfg.ResultsPerQuery = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

// Search runs one query and returns hits in ranked order. Provider failures
// map onto the scout error taxonomy: 401/403 to auth, 429 or a quota error
// body to quota exhaustion, transport and 5xx failures to transient.
func (c *Client) Search(ctx context.Context, query string) ([]scout.SearchResult, error) {
	endpoint, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("num", strconv.Itoa(c.cfg.ResultsPerQuery))
	q.Set("api_key", c.cfg.APIKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("search request: %v: %w", err, scout.ErrTransient)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("search provider status %d: %w", resp.StatusCode, scout.ErrAuth)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("search provider status %d: %w", resp.StatusCode, scout.ErrQuotaExceeded)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("search provider status %d: %w", resp.StatusCode, scout.ErrTransient)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("search provider status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if body.Error != "" {
		if isQuotaMessage(body.Error) {
			return nil, fmt.Errorf("search provider: %s: %w", body.Error, scout.ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("search provider: %s", body.Error)
	}

	results := make([]scout.SearchResult, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		if r.Link == "" {
			continue
		}
		results = append(results, scout.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}

func isQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "run out of searches")
}

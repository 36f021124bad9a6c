// Package dodge provides access to the Dodge Construction Central
// project-search API.
package dodge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://www.construction.com/api/1.0/int"

// pageLimit is the API's hard cap on results per search page.
const pageLimit = 100

// Project is one raw project object from the search feed. The shape is
// deliberately untyped: the feed nests {id,value} wrappers and
// primary-flagged arrays that downstream mapping traverses defensively.
type Project = map[string]any

// SearchCriteria selects projects by type and publish date range.
type SearchCriteria struct {
	ProjectTypes []string
	PublishedMin time.Time
	PublishedMax time.Time
}

// Client defines the Dodge API operations used by the pipeline.
type Client interface {
	// Search returns every project matching the criteria, paging through
	// the feed until exhaustion or the configured page cap.
	Search(ctx context.Context, criteria SearchCriteria) ([]Project, error)
}

// ClientOption configures the Dodge client.
type ClientOption func(*client)

// WithBaseURL overrides the API root, for tests and staging.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithMaxPages caps how many result pages one Search will fetch.
func WithMaxPages(n int) ClientOption {
	return func(c *client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit sets a per-second request rate limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type client struct {
	apiKey     string
	baseURL    string
	maxPages   int
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Dodge API client authenticated with the given key.
func NewClient(apiKey string, opts ...ClientOption) Client {
	c := &client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		maxPages:   10,
		maxRetries: 3,
		http:       &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Criteria   searchCriteriaJSON `json:"criteria"`
	Pagination paginationJSON     `json:"pagination"`
}

type searchCriteriaJSON struct {
	ProjectTypes     []string      `json:"projectTypes"`
	PublishDateRange dateRangeJSON `json:"publishDateRange"`
}

type dateRangeJSON struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type paginationJSON struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type searchResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

func (c *client) Search(ctx context.Context, criteria SearchCriteria) ([]Project, error) {
	var all []Project
	offset := 0

	for page := 0; page < c.maxPages; page++ {
		resp, err := c.searchPage(ctx, criteria, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Projects...)
		offset += len(resp.Projects)

		if len(resp.Projects) == 0 || offset >= resp.Total {
			return all, nil
		}
		if page == c.maxPages-1 && offset < resp.Total {
			zap.L().Warn("dodge: page cap reached before feed exhausted",
				zap.Int("fetched", offset),
				zap.Int("total", resp.Total),
				zap.Int("max_pages", c.maxPages),
			)
		}
	}
	return all, nil
}

func (c *client) searchPage(ctx context.Context, criteria SearchCriteria, offset int) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		Criteria: searchCriteriaJSON{
			ProjectTypes: criteria.ProjectTypes,
			PublishDateRange: dateRangeJSON{
				Min: criteria.PublishedMin.Format("2006-01-02"),
				Max: criteria.PublishedMax.Format("2006-01-02"),
			},
		},
		Pagination: paginationJSON{Offset: offset, Limit: pageLimit},
	})
	if err != nil {
		return nil, eris.Wrap(err, "dodge: marshal search request")
	}

	var lastErr error
	for attempt := range c.maxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "dodge: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/project/search", bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "dodge: create request")
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			zap.L().Warn("dodge: search request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("dodge: http %d from project search", resp.StatusCode)
			zap.L().Warn("dodge: retryable status, backing off",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, eris.Errorf("dodge: unexpected status %d: %s", resp.StatusCode, payload)
		}

		var out searchResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if decodeErr != nil {
			return nil, eris.Wrap(decodeErr, "dodge: decode search response")
		}
		return &out, nil
	}

	return nil, eris.Wrap(lastErr, "dodge: all retries exhausted")
}

func (c *client) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

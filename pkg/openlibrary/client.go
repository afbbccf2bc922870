// Package openlibrary implements the HTTP client for the Open Library
// search and covers endpoints. The client issues one GET per search,
// honors context cancellation, and rate limits itself against the
// public API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openshelf/openshelf/pkg/book"
	"golang.org/x/time/rate"
)

// searchFields is the fixed field selection requested from the
// provider. Keeping the list fixed keeps responses small and the doc
// struct stable.
const searchFields = "key,title,subtitle,author_name,first_publish_year,publish_year,publisher,edition_count,cover_i,language,ebook_count_i,subject,ratings_average"

// Config configures a Client. Zero values fall back to the public Open
// Library endpoints and a conservative rate limit.
type Config struct {
	Endpoint       string
	CoversEndpoint string
	RateLimit      float64 // requests per second
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// Client queries the Open Library search API.
type Client struct {
	endpoint string
	covers   string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://openlibrary.org/search.json"
	}
	if cfg.CoversEndpoint == "" {
		cfg.CoversEndpoint = "https://covers.openlibrary.org"
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2.0
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint: cfg.Endpoint,
		covers:   cfg.CoversEndpoint,
		client:   httpClient,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Search issues one request for the given query and decodes the
// response page. The context cancels both the limiter wait and the
// request itself; a cancelled search returns the context's error.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.URL.RawQuery = c.buildQuery(q).Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Printf("Warning: failed to close response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result := &Result{
		NumFound: sr.NumFound,
		Books:    make([]book.Book, 0, len(sr.Docs)),
	}
	for _, d := range sr.Docs {
		result.Books = append(result.Books, d.toBook())
	}

	return result, nil
}

// buildQuery translates a Query into outbound URL parameters. Exactly
// one primary field is set, chosen by the query mode.
func (c *Client) buildQuery(q Query) url.Values {
	v := url.Values{}
	v.Set(q.Mode.queryParam(), q.Text)
	if q.Subject != "" {
		v.Set("subject", q.Subject)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	v.Set("fields", searchFields)
	return v
}

// CoverURL returns the cover image URL for a numeric cover id and size
// code ("S", "M" or "L"). An id of zero means the record has no cover
// and yields an empty string.
func (c *Client) CoverURL(coverID int64, size string) string {
	if coverID <= 0 {
		return ""
	}
	switch size {
	case "S", "M", "L":
	default:
		size = "M"
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", c.covers, coverID, size)
}

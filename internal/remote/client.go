package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize matches the API's default page; sync passes override it.
	DefaultPageSize = 50

	defaultTimeout = 30 * time.Second
)

// FetchError normalizes every transport failure and non-2xx response into a
// single error kind carrying the operation name. Retry policy lives with the
// caller, never here.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Config struct {
	BaseURL string
	// Timeout bounds each request; the API gives no latency guarantee and an
	// indefinite hang would wedge the sync pass.
	Timeout time.Duration
	// RequestsPerSec rate-limits calls against the API host.
	RequestsPerSec float64
	HTTPClient     *http.Client
}

type Client struct {
	base    string
	hc      *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		base:    trimSlash(cfg.BaseURL),
		hc:      hc,
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
	}, nil
}

// Query selects one page of jobs. Since is optional: when set, only jobs
// discovered at or after that instant come back (server-side contract).
type Query struct {
	Page     int
	PageSize int
	Category string
	Since    time.Time
}

// FetchJobs retrieves one page of listings plus pagination metadata.
func (c *Client) FetchJobs(ctx context.Context, q Query) (Page, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Category == "" {
		q.Category = "all"
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("page_size", strconv.Itoa(q.PageSize))
	values.Set("category", q.Category)
	if !q.Since.IsZero() {
		values.Set("since", q.Since.UTC().Format(time.RFC3339))
	}

	var page Page
	if err := c.getJSON(ctx, "fetch jobs", "/api/jobs?"+values.Encode(), &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// FetchStats retrieves the aggregate listing counters.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "fetch stats", "/api/stats", &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

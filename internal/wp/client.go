// Package wp is a read-only client for the WordPress REST API (wp/v2).
package wp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nordvang/presskit/internal/logfields"
	"github.com/nordvang/presskit/internal/metrics"
	"github.com/nordvang/presskit/internal/retry"
)

const (
	apiPrefix        = "/wp-json/wp/v2"
	maxResponseBytes = 8 * 1024 * 1024
	userAgent        = "presskit/1.0"
)

// errTransportFailure marks network-level failures so IsTransient can
// distinguish them from decode errors and cancellations.
var errTransportFailure = errors.New("wp: transport failure")

// Client issues requests against one WordPress instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	recorder   metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests inject
// httptest-backed clients this way).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryPolicy sets the transient-failure retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a client for the WordPress instance at baseURL
// (scheme and host, no /wp-json suffix).
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("wp: invalid base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		policy:     retry.DefaultPolicy(),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured WordPress base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListPosts returns a page of posts.
func (c *Client) ListPosts(ctx context.Context, q Query) (*PostList, error) {
	return c.list(ctx, "posts", q)
}

// GetPostBySlug returns a single post with embedded resources expanded.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return c.bySlug(ctx, "posts", slug)
}

// ListPages returns a page of WordPress pages.
func (c *Client) ListPages(ctx context.Context, q Query) (*PostList, error) {
	return c.list(ctx, "pages", q)
}

// GetPageBySlug returns a single WordPress page.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) (*Post, error) {
	return c.bySlug(ctx, "pages", slug)
}

// ListByType returns a page of a custom post type's collection. restBase is
// the CPT's REST collection name (show_in_rest rest_base).
func (c *Client) ListByType(ctx context.Context, restBase string, q Query) (*PostList, error) {
	return c.list(ctx, restBase, q)
}

// GetByTypeAndSlug returns a single custom post type entry.
func (c *Client) GetByTypeAndSlug(ctx context.Context, restBase, slug string) (*Post, error) {
	return c.bySlug(ctx, restBase, slug)
}

// ListTerms returns terms of a taxonomy collection ("categories", "tags", or a
// custom taxonomy's rest base).
func (c *Client) ListTerms(ctx context.Context, taxonomy string, q Query) ([]Term, error) {
	var terms []Term
	if _, err := c.get(ctx, taxonomy, q, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// GetTermBySlug resolves a single term by slug.
func (c *Client) GetTermBySlug(ctx context.Context, taxonomy, slug string) (*Term, error) {
	terms, err := c.ListTerms(ctx, taxonomy, NewQuery().Slug(slug))
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, taxonomy, slug)
	}
	return &terms[0], nil
}

// GetMedia returns a single attachment by ID.
func (c *Client) GetMedia(ctx context.Context, id int) (*Media, error) {
	var m Media
	endpoint := fmt.Sprintf("media/%d", id)
	if _, err := c.get(ctx, endpoint, Query{}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Ping verifies the API root is reachable and speaks the WP REST dialect.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wp-json/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errTransportFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	var root struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&root); err != nil {
		return fmt.Errorf("wp: unexpected API root response: %w", err)
	}
	return nil
}

// list fetches a collection endpoint and decodes posts plus pagination totals.
func (c *Client) list(ctx context.Context, endpoint string, q Query) (*PostList, error) {
	var posts []Post
	header, err := c.get(ctx, endpoint, q, &posts)
	if err != nil {
		return nil, err
	}
	out := &PostList{Posts: posts}
	out.Total, _ = strconv.Atoi(header.Get("X-WP-Total"))
	out.TotalPages, _ = strconv.Atoi(header.Get("X-WP-TotalPages"))
	if out.TotalPages == 0 && len(posts) > 0 {
		out.TotalPages = 1
	}
	return out, nil
}

// bySlug resolves a single entity through a slug-filtered collection query.
func (c *Client) bySlug(ctx context.Context, endpoint, slug string) (*Post, error) {
	var posts []Post
	q := NewQuery().Slug(slug).Embed()
	if _, err := c.get(ctx, endpoint, q, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, endpoint, slug)
	}
	return &posts[0], nil
}

// get issues a GET with retry on transient failures and decodes the JSON body
// into result. The response header is returned for pagination totals.
func (c *Client) get(ctx context.Context, endpoint string, q Query, result any) (http.Header, error) {
	reqURL := c.baseURL + apiPrefix + "/" + strings.TrimPrefix(endpoint, "/")
	if enc := q.Encode(); enc != "" {
		reqURL += "?" + enc
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.recorder.IncUpstreamRetry(endpoint)
			slog.Debug("retrying WordPress request",
				logfields.Endpoint(endpoint),
				logfields.Attempt(attempt),
				logfields.Error(lastErr))
			select {
			case <-time.After(c.policy.Delay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		header, err := c.doOnce(ctx, endpoint, reqURL, result)
		if err == nil {
			return header, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt >= c.policy.MaxRetries {
			return nil, err
		}
	}
}

func (c *Client) doOnce(ctx context.Context, endpoint, reqURL string, result any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ObserveUpstreamDuration(endpoint, time.Since(start), false)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recorder.ObserveUpstreamDuration(endpoint, time.Since(start), false)
		return nil, fmt.Errorf("%w: reading body: %v", errTransportFailure, err)
	}

	if resp.StatusCode >= 400 {
		c.recorder.ObserveUpstreamDuration(endpoint, time.Since(start), false)
		return nil, parseAPIError(resp.StatusCode, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			c.recorder.ObserveUpstreamDuration(endpoint, time.Since(start), false)
			return nil, fmt.Errorf("wp: decoding %s response: %w", endpoint, err)
		}
	}
	c.recorder.ObserveUpstreamDuration(endpoint, time.Since(start), true)
	return resp.Header, nil
}

// parseAPIError decodes the standard WP error body when present:
// {"code":"rest_no_route","message":"…","data":{"status":404}}.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var wpErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wpErr) == nil {
		apiErr.Code = wpErr.Code
		apiErr.Message = wpErr.Message
	}
	return apiErr
}

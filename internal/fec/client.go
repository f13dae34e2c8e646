// Package fec talks to the federal campaign-finance record source. All
// requests share one token-bucket rate limiter and recover from throttling
// with bounded exponential backoff.
package fec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"whopaysthem/internal/finance"
)

const (
	defaultBaseURL = "https://api.open.fec.gov/v1"
	perPage        = 100
)

var errThrottled = errors.New("fec: throttled")

// Client is a thin wrapper around the FEC REST API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
}

// NewClient constructs a client with sane defaults: 14 requests per minute
// and three retries with exponential backoff.
func NewClient(apiKey string, opts ...func(*Client)) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Every(time.Minute/14), 1),
		maxRetries:  3,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the default API base URL (useful for tests).
func WithBaseURL(u string) func(*Client) {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithLimiter injects a shared rate limiter. Tests pass a no-op limiter.
func WithLimiter(l *rate.Limiter) func(*Client) {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithRetries caps the retry budget for throttled or transient failures.
func WithRetries(n int) func(*Client) {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the initial backoff delay, doubled on each retry.
func WithBackoff(d time.Duration) func(*Client) {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

// get performs one API call with rate limiting and bounded retry, decoding
// the response into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if c.apiKey == "" {
		return &finance.ConfigError{Setting: "FEC_API_KEY", Reason: "access credential is required"}
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	query.Set("per_page", fmt.Sprintf("%d", perPage))

	var lastErr error
	delay := c.backoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.do(ctx, endpoint, query, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	if errors.Is(lastErr, errThrottled) {
		return &finance.RateLimitError{Endpoint: endpoint, Attempts: c.maxRetries + 1}
	}
	return fmt.Errorf("fec: %s failed after %d attempts: %w", endpoint, c.maxRetries+1, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string, query url.Values, out interface{}) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("fec: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("fec: request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, errThrottled
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode >= 500, fmt.Errorf("fec: api error %d on %s: %s", resp.StatusCode, endpoint, string(data))
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return false, fmt.Errorf("fec: decode %s: %w", endpoint, err)
	}
	return false, nil
}

// pagination is the envelope the API wraps every result list in.
type pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
}

// Package statsapi is a client for the stats.nba.com JSON endpoints.
package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/boxscore/backend/internal/domain"
)

// Observer receives one callback per upstream attempt
type Observer interface {
	ObserveStatsCall(endpoint, outcome string, elapsed time.Duration)
}

// Options configures a Client
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	RequestInterval time.Duration
	Logger          *slog.Logger
	Observer        Observer
	HTTPClient      *http.Client
}

// Client fetches and decodes stats.nba.com result sets
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	observer   Observer
}

// StatusError is returned for non-200 upstream responses
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("statsapi: %s returned status %d", e.Endpoint, e.StatusCode)
}

// NewClient creates a new stats API client
func NewClient(opts Options) *Client {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		logger:     opts.Logger,
		observer:   opts.Observer,
	}
}

// get performs a rate-limited GET with retries on timeouts, connection errors, 429 and 5xx
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var (
		env       envelope
		retryable bool
		attempt   int
	)

	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			// the deadline expires before the next request slot
			return backoff.Permanent(fmt.Errorf("statsapi: %s rate limited: %w: %w", endpoint, domain.ErrUpstreamUnavailable, err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("statsapi: failed to create request: %w", err))
		}
		setHeaders(req)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.observe(endpoint, "error", time.Since(start))
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			retryable = true
			c.logger.Warn("stats request failed, retrying",
				"endpoint", endpoint, "attempt", attempt, "max", c.maxRetries, "error", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.observe(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
			statusErr := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				retryable = true
				c.logger.Warn("stats request rejected, retrying",
					"endpoint", endpoint, "status", resp.StatusCode, "attempt", attempt, "max", c.maxRetries)
				return statusErr
			}
			retryable = false
			return backoff.Permanent(statusErr)
		}

		env = envelope{}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			c.observe(endpoint, "decode_error", time.Since(start))
			retryable = false
			return backoff.Permanent(fmt.Errorf("statsapi: failed to decode %s: %w", endpoint, err))
		}
		c.observe(endpoint, "ok", time.Since(start))
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		if retryable || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("statsapi: %s failed after %d attempts: %w: %w",
				endpoint, attempt, domain.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}

	return &env, nil
}

func (c *Client) observe(endpoint, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveStatsCall(endpoint, outcome, elapsed)
	}
}

// setHeaders mimics a browser; stats.nba.com drops requests without them
func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

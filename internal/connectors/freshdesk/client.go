package freshdesk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

var errTooManyRequests = errors.New("freshdesk: too many requests")

// Client is a minimal Freshdesk API v2 client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timer      backoff.Timer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimer replaces the timer used between 429 retries. Used by tests.
func WithTimer(t backoff.Timer) Option {
	return func(c *Client) {
		c.timer = t
	}
}

// NewClient creates a client for the account in cfg.
// cfg must have been validated.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// retryAfterBackOff waits whatever the last 429 asked for, forever.
type retryAfterBackOff struct {
	next time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration { return b.next }

func (b *retryAfterBackOff) Reset() {}

// do sends the request, repeating it while the server answers 429.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, operation string) (*response, error) {
	bo := &retryAfterBackOff{}
	var res *response

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: build request: %w", domain.ErrInvalidInput, err))
		}
		req.SetBasicAuth(c.apiKey, "X")
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return backoff.Permanent(&domain.UpstreamError{Service: serviceName, Operation: operation, Err: err})
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(&domain.UpstreamError{
				Service: serviceName, Operation: operation, StatusCode: resp.StatusCode, Err: err,
			})
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			bo.next = retryDelay(resp.Header.Get(HeaderRetryAfter), time.Now())
			logger.Warn("Freshdesk rate limit hit, retrying in %s", bo.next)
			return errTooManyRequests
		}

		res = &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
		return nil
	}

	if err := backoff.RetryNotifyWithTimer(op, backoff.WithContext(bo, ctx), nil, c.timer); err != nil {
		return nil, err
	}
	return res, nil
}

// retryDelay is the Retry-After value plus one second. The header may be
// delta-seconds or an HTTP date; anything unparseable counts as zero.
func retryDelay(header string, now time.Time) time.Duration {
	var wait time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(max(secs, 0)) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		wait = max(at.Sub(now), 0).Truncate(time.Second)
	}
	return wait + time.Second
}

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client and coordinates every call with the
// rate budget: wait, call, account.
type Client struct {
	gh     *gh.Client
	owner  string
	repo   string
	budget *RateBudget
}

// NewClient creates a GitHub client authenticated with cfg.Token.
func NewClient(ctx context.Context, cfg Config, opts ...BudgetOption) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	return NewClientWithHTTPClient(tc, cfg, opts...)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, cfg Config, opts ...BudgetOption) (*Client, error) {
	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: github base url: %w", domain.ErrInvalidInput, err)
		}
		client.BaseURL = u
	}

	c := &Client{
		gh:    client,
		owner: cfg.Owner,
		repo:  cfg.Repo,
	}
	if cfg.GracePeriod > 0 {
		opts = append([]BudgetOption{WithGracePeriod(cfg.GracePeriod)}, opts...)
	}
	if cfg.ThrottleRPS > 0 {
		opts = append([]BudgetOption{WithThrottle(cfg.ThrottleRPS)}, opts...)
	}
	c.budget = NewRateBudget(c.fetchRateStatus, opts...)
	return c, nil
}

// Budget returns the rate budget for external access.
func (c *Client) Budget() *RateBudget {
	return c.budget
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, number int) (*gh.Issue, error) {
	var issue *gh.Issue
	err := c.call(ctx, "get issue", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		issue, resp, err = c.gh.Issues.Get(ctx, c.owner, c.repo, number)
		return resp, err
	})
	return issue, err
}

// ListIssuesPage fetches one page of repository issues.
func (c *Client) ListIssuesPage(ctx context.Context, opts *gh.IssueListByRepoOptions) ([]*gh.Issue, error) {
	var issues []*gh.Issue
	err := c.call(ctx, "list issues", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		issues, resp, err = c.gh.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
		return resp, err
	})
	return issues, err
}

// SetLabels replaces the label set of an issue and returns the status code.
func (c *Client) SetLabels(ctx context.Context, number int, labels []string) (int, error) {
	var status int
	err := c.call(ctx, "update issue labels", func() (*gh.Response, error) {
		_, resp, err := c.gh.Issues.Edit(ctx, c.owner, c.repo, number, &gh.IssueRequest{
			Labels: &labels,
		})
		if resp != nil {
			status = resp.StatusCode
		}
		return resp, err
	})
	return status, err
}

// call runs fn under the rate budget. Calls rejected for rate limiting
// exhaust the budget and are retried after the wait; every other failure is
// returned as is.
func (c *Client) call(ctx context.Context, operation string, fn func() (*gh.Response, error)) error {
	for {
		if err := c.budget.WaitUntilAvailable(ctx); err != nil {
			return err
		}

		_, err := fn()
		if err == nil {
			return c.budget.Account()
		}

		var rateErr *gh.RateLimitError
		if errors.As(err, &rateErr) {
			logger.Warn("github %s: primary rate limit hit", operation)
			c.budget.Exhaust(rateErr.Rate.Reset.Time)
			continue
		}
		var abuseErr *gh.AbuseRateLimitError
		if errors.As(err, &abuseErr) {
			retryAfter := abuseErr.GetRetryAfter()
			if retryAfter <= 0 {
				retryAfter = time.Minute
			}
			logger.Warn("github %s: secondary rate limit hit, retry after %s", operation, retryAfter)
			c.budget.Exhaust(c.budget.now().Add(retryAfter))
			continue
		}

		return c.wrapError(err, operation)
	}
}

// fetchRateStatus reads the core quota. The rate limit endpoint does not
// count against the quota, so it bypasses the budget.
func (c *Client) fetchRateStatus(ctx context.Context) (RateStatus, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return RateStatus{}, c.wrapError(err, "get rate limit")
	}
	core := limits.GetCore()
	if core == nil {
		return RateStatus{}, &domain.UpstreamError{
			Service:   serviceName,
			Operation: "get rate limit",
			Err:       errors.New("response has no core rate"),
		}
	}
	return RateStatus{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Used:      core.Used,
		ResetAt:   core.Reset.Time,
	}, nil
}

// wrapError converts go-github errors to domain upstream errors.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	upErr := &domain.UpstreamError{
		Service:   serviceName,
		Operation: operation,
		Err:       err,
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		upErr.StatusCode = ghErr.Response.StatusCode
		upErr.Err = errors.New(ghErr.Message)
		if upErr.StatusCode == http.StatusNotFound {
			upErr.Err = fmt.Errorf("%w: %s", domain.ErrNotFound, ghErr.Message)
		}
	}

	return upErr
}

package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// DefaultGracePeriod is added to the reported reset time before the budget
// is refreshed. Reset timestamps are imprecise.
const DefaultGracePeriod = 5 * time.Second

// RateStatus is a snapshot of the remote call quota.
type RateStatus struct {
	Limit     int
	Remaining int
	Used      int
	ResetAt   time.Time
}

// FetchFunc queries the remote rate limit endpoint.
type FetchFunc func(ctx context.Context) (RateStatus, error)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RateBudget tracks the remaining-call count and reset time of the GitHub API.
// It must be refreshed once before any call is accounted against it.
type RateBudget struct {
	mu          sync.Mutex
	initialised bool
	limit       int
	remaining   int
	used        int
	resetAt     time.Time

	fetch  FetchFunc
	grace  time.Duration
	bucket *rate.Limiter // Optional proactive throttling
	now    func() time.Time
	sleep  SleepFunc
}

// BudgetOption configures a RateBudget.
type BudgetOption func(*RateBudget)

// WithGracePeriod overrides DefaultGracePeriod.
func WithGracePeriod(d time.Duration) BudgetOption {
	return func(b *RateBudget) {
		if d > 0 {
			b.grace = d
		}
	}
}

// WithThrottle spaces calls to at most rps requests per second.
// Zero disables throttling.
func WithThrottle(rps float64) BudgetOption {
	return func(b *RateBudget) {
		if rps > 0 {
			b.bucket = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithClock replaces the wall clock and sleeper. Used by tests.
func WithClock(now func() time.Time, sleep SleepFunc) BudgetOption {
	return func(b *RateBudget) {
		b.now = now
		b.sleep = sleep
	}
}

// NewRateBudget creates an uninitialised budget backed by fetch.
func NewRateBudget(fetch FetchFunc, opts ...BudgetOption) *RateBudget {
	b := &RateBudget{
		fetch: fetch,
		grace: DefaultGracePeriod,
		now:   time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Refresh replaces the budget with the remote's current view.
func (b *RateBudget) Refresh(ctx context.Context) error {
	status, err := b.fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh rate budget: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.limit = status.Limit
	b.remaining = max(status.Remaining, 0)
	b.used = status.Used
	b.resetAt = status.ResetAt
	b.initialised = true

	logger.Debug("github rate budget: %d/%d remaining, resets at %s",
		b.remaining, b.limit, b.resetAt.Format(time.RFC3339))
	return nil
}

// Account records one successful call.
func (b *RateBudget) Account() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialised {
		return b.uninitialised()
	}
	if b.remaining > 0 {
		b.remaining--
	}
	b.used++
	return nil
}

// Exhaust marks the budget as spent until resetAt. It is applied when the
// remote rejects a call for rate limiting despite a positive local count;
// the remote's reset time replaces the local one.
func (b *RateBudget) Exhaust(resetAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.remaining = 0
	b.resetAt = resetAt
}

// WaitUntilAvailable blocks until at least one call remains.
// While the budget is spent it sleeps until the reset time plus the grace
// period, then refreshes. A refresh that still reports zero remaining is
// followed by another grace sleep, never by an immediate refresh.
func (b *RateBudget) WaitUntilAvailable(ctx context.Context) error {
	b.mu.Lock()
	initialised := b.initialised
	b.mu.Unlock()
	if !initialised {
		return b.uninitialised()
	}

	if b.bucket != nil {
		if err := b.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	refreshed := false
	for {
		b.mu.Lock()
		remaining := b.remaining
		resetAt := b.resetAt
		b.mu.Unlock()

		if remaining > 0 {
			return nil
		}

		now := b.now()
		if !now.Before(resetAt) && !refreshed {
			if err := b.Refresh(ctx); err != nil {
				return err
			}
			refreshed = true
			continue
		}

		wait := max(resetAt.Sub(now), 0) + b.grace
		logger.Warn("GitHub rate limit reached, waiting %s (reset at %s)",
			wait.Round(time.Second), resetAt.Format(time.RFC3339))
		if err := b.sleep(ctx, wait); err != nil {
			return err
		}
		refreshed = false
	}
}

// Status returns a snapshot of the budget.
func (b *RateBudget) Status() RateStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return RateStatus{
		Limit:     b.limit,
		Remaining: b.remaining,
		Used:      b.used,
		ResetAt:   b.resetAt,
	}
}

// Initialised reports whether Refresh has succeeded at least once.
func (b *RateBudget) Initialised() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialised
}

func (b *RateBudget) uninitialised() error {
	return fmt.Errorf("%w: rate budget used before Refresh", domain.ErrPreconditionViolated)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

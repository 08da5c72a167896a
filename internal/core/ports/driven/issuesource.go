package driven

import (
	"context"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// IssueSource reads issues from a remote tracker.
// Every call waits for rate budget before touching the network and is
// accounted against it on success. Failures are not retried.
type IssueSource interface {
	// RefreshBudget fetches the current rate budget. It must succeed once
	// before any other call.
	RefreshBudget(ctx context.Context) error

	// FetchOne retrieves a single issue by number.
	FetchOne(ctx context.Context, number int) (*domain.Issue, error)

	// FetchPage retrieves one page of issues sorted by creation time
	// ascending. Pages are numbered from 1. An empty slice means the list
	// is exhausted.
	FetchPage(ctx context.Context, page int, filter domain.IssuesFilter) ([]domain.Issue, error)

	// MarkProcessed appends the processed label to the issue's labels and
	// updates the remote issue. It returns the remote status code.
	MarkProcessed(ctx context.Context, issue domain.Issue) (int, error)

	// ProcessedLabel returns the sentinel label applied by MarkProcessed.
	ProcessedLabel() string
}

package github

import (
	"context"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.IssueSource = (*Connector)(nil)

// Connector reads issues from one GitHub repository.
type Connector struct {
	client *Client
	config Config
}

// New creates a connector for the repository in cfg.
func New(client *Client, cfg Config) *Connector {
	if cfg.ProcessedLabel == "" {
		cfg.ProcessedLabel = DefaultProcessedLabel
	}
	return &Connector{
		client: client,
		config: cfg,
	}
}

// ProcessedLabel returns the sentinel label.
func (c *Connector) ProcessedLabel() string {
	return c.config.ProcessedLabel
}

// RefreshBudget fetches the current rate budget.
func (c *Connector) RefreshBudget(ctx context.Context) error {
	return c.client.Budget().Refresh(ctx)
}

// FetchOne retrieves a single issue.
func (c *Connector) FetchOne(ctx context.Context, number int) (*domain.Issue, error) {
	issue, err := c.client.GetIssue(ctx, number)
	if err != nil {
		return nil, err
	}
	out := toDomainIssue(issue)
	return &out, nil
}

// FetchPage retrieves one page of issues sorted by creation ascending.
func (c *Connector) FetchPage(ctx context.Context, page int, filter domain.IssuesFilter) ([]domain.Issue, error) {
	issues, err := c.client.ListIssuesPage(ctx, listOptions(page, filter))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue == nil {
			continue
		}
		out = append(out, toDomainIssue(issue))
	}
	logger.Debug("github %s page %d: %d issues", c.config.FullName(), page, len(out))
	return out, nil
}

// MarkProcessed appends the processed label and updates the remote issue.
// The local copy is left untouched.
func (c *Connector) MarkProcessed(ctx context.Context, issue domain.Issue) (int, error) {
	return c.client.SetLabels(ctx, issue.Number, withLabel(issue.Labels, c.config.ProcessedLabel))
}

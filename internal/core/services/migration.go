package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
	"github.com/optz/gh-freshdesk/internal/core/ports/driving"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// Ensure Controller implements the interfaces.
var (
	_ driving.Migrator      = (*Controller)(nil)
	_ driving.JournalReader = (*Controller)(nil)
)

// DefaultHistoryLimit caps History when no limit is given.
const DefaultHistoryLimit = 20

// Controller hands eligible issues to the ticket sink and marks them
// processed once the sink accepts them. Within one run each issue
// occurrence is checked and sent at most once. Across runs delivery is
// at-least-once: a ticket whose issue could not be marked is sent again
// by the next run.
type Controller struct {
	source      driven.IssueSource
	sink        driven.TicketSink
	builder     *TicketBuilder
	journal     driven.MigrationJournal
	walker      *PaginationWalker
	eligibility Eligibility

	now      func() time.Time
	newRunID func() string
}

// NewController creates a controller. journal may be nil.
func NewController(
	source driven.IssueSource,
	sink driven.TicketSink,
	builder *TicketBuilder,
	journal driven.MigrationJournal,
	botLogin string,
) *Controller {
	eligibility := Eligibility{ProcessedLabel: source.ProcessedLabel(), BotLogin: botLogin}
	return &Controller{
		source:      source,
		sink:        sink,
		builder:     builder,
		journal:     journal,
		walker:      NewPaginationWalker(source, eligibility),
		eligibility: eligibility,
		now:         time.Now,
		newRunID:    func() string { return uuid.New().String() },
	}
}

// run is the state of one invocation.
type run struct {
	report  domain.RunReport
	opts    driving.RunOptions
	missing []error
}

func (c *Controller) start(opts driving.RunOptions) *run {
	return &run{
		opts: opts,
		report: domain.RunReport{
			RunID:     c.newRunID(),
			StartedAt: c.now(),
			DryRun:    opts.DryRun,
		},
	}
}

// finish closes the report. Missing responder mappings are returned
// together so the operator sees every key to add.
func (c *Controller) finish(r *run, err error) (*domain.RunReport, error) {
	r.report.EndedAt = c.now()
	logger.Info("Run %s finished: %s", r.report.RunID, r.report)
	if err != nil {
		return &r.report, err
	}
	return &r.report, errors.Join(r.missing...)
}

// MigrateIssue processes a single issue, ignoring any filter.
func (c *Controller) MigrateIssue(ctx context.Context, number int, opts driving.RunOptions) (*domain.RunReport, error) {
	r := c.start(opts)

	if err := c.source.RefreshBudget(ctx); err != nil {
		return c.finish(r, fmt.Errorf("refresh rate budget: %w", err))
	}

	issue, err := c.source.FetchOne(ctx, number)
	if err != nil {
		return c.finish(r, fmt.Errorf("fetch issue #%d: %w", number, err))
	}

	return c.finish(r, c.process(ctx, r, *issue))
}

// MigrateFiltered processes every eligible issue the filter surfaces.
// opts.MaxBatches stops the walk early.
func (c *Controller) MigrateFiltered(
	ctx context.Context,
	filter domain.IssuesFilter,
	opts driving.RunOptions,
) (*domain.RunReport, error) {
	r := c.start(opts)

	if err := c.source.RefreshBudget(ctx); err != nil {
		return c.finish(r, fmt.Errorf("refresh rate budget: %w", err))
	}

	for batch, err := range c.walker.Batches(ctx, filter) {
		if err != nil {
			return c.finish(r, err)
		}
		r.report.Batches++
		r.report.Skipped += batch.Ineligible
		logger.Debug("Page %d: %d eligible, %d ineligible, %d outside window",
			batch.Page, len(batch.Issues), batch.Ineligible, batch.OutOfWindow)

		for _, issue := range batch.Issues {
			if err := c.process(ctx, r, issue); err != nil {
				return c.finish(r, err)
			}
		}

		if opts.MaxBatches > 0 && r.report.Batches >= opts.MaxBatches {
			logger.Debug("Stopping after %d batches", r.report.Batches)
			break
		}
	}

	return c.finish(r, nil)
}

// process runs the eligibility, sink and mark sequence for one issue
// occurrence. A returned error aborts the run.
func (c *Controller) process(ctx context.Context, r *run, issue domain.Issue) error {
	r.report.Seen++

	if reason := c.eligibility.SkipReason(issue); reason != "" {
		r.report.Skipped++
		logger.Info("Skipping issue #%d: %s", issue.Number, reason)
		return nil
	}

	ticket, err := c.builder.Build(issue)
	if err != nil {
		r.report.Failed++
		c.record(ctx, r, issue.Number, nil, domain.OutcomeFailed, false, err)
		if errors.Is(err, domain.ErrMissingConfiguration) {
			logger.Warn("Issue #%d not sent: %v", issue.Number, err)
			r.missing = append(r.missing, fmt.Errorf("issue #%d: %w", issue.Number, err))
			return nil
		}
		return fmt.Errorf("build ticket for issue #%d: %w", issue.Number, err)
	}

	if r.opts.DryRun {
		logger.Info("Dry run: would create %q", ticket.Subject)
		c.record(ctx, r, issue.Number, nil, domain.OutcomeDryRun, false, nil)
		return nil
	}

	created, err := c.sink.CreateTicket(ctx, *ticket)
	if err != nil {
		if errors.Is(err, domain.ErrSinkRejected) {
			r.report.Rejected++
			logger.Warn("Ticket for issue #%d not created, issue left unmarked: %v", issue.Number, err)
			c.record(ctx, r, issue.Number, nil, domain.OutcomeRejected, false, err)
			return nil
		}
		r.report.Failed++
		c.record(ctx, r, issue.Number, nil, domain.OutcomeFailed, false, err)
		return fmt.Errorf("create ticket for issue #%d: %w", issue.Number, err)
	}
	r.report.Created++
	logger.Info("Created ticket %d for issue #%d", created.ID, issue.Number)

	if _, err := c.source.MarkProcessed(ctx, issue); err != nil {
		c.record(ctx, r, issue.Number, created, domain.OutcomeCreated, false, err)
		return fmt.Errorf("mark issue #%d processed after creating ticket %d: %w", issue.Number, created.ID, err)
	}
	r.report.Marked++
	c.record(ctx, r, issue.Number, created, domain.OutcomeCreated, true, nil)
	return nil
}

// record writes a journal entry. Journal failures never affect the run.
func (c *Controller) record(
	ctx context.Context,
	r *run,
	number int,
	created *domain.CreatedTicket,
	outcome domain.Outcome,
	marked bool,
	cause error,
) {
	if c.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		RunID:       r.report.RunID,
		IssueNumber: number,
		Outcome:     outcome,
		Marked:      marked,
		RecordedAt:  c.now(),
	}
	if created != nil {
		entry.TicketID = created.ID
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := c.journal.Record(ctx, entry); err != nil {
		logger.Warn("Failed to journal issue #%d: %v", number, err)
	}
}

// History returns journal entries, newest first. A non-zero issue limits
// the result to that issue.
func (c *Controller) History(ctx context.Context, issue, limit int) ([]domain.JournalEntry, error) {
	if c.journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if issue != 0 {
		entries, err := c.journal.ForIssue(ctx, issue)
		if err != nil {
			return nil, fmt.Errorf("journal for issue #%d: %w", issue, err)
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}
	entries, err := c.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent journal: %w", err)
	}
	return entries, nil
}

package driving

import (
	"context"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// Migrator turns tracker issues into desk tickets.
type Migrator interface {
	// MigrateIssue processes a single issue by number, ignoring filters.
	MigrateIssue(ctx context.Context, number int, opts RunOptions) (*domain.RunReport, error)

	// MigrateFiltered processes every eligible issue the filter surfaces.
	MigrateFiltered(ctx context.Context, filter domain.IssuesFilter, opts RunOptions) (*domain.RunReport, error)
}

// RunOptions tunes a single run.
type RunOptions struct {
	// DryRun renders tickets without creating them or marking issues.
	DryRun bool

	// MaxBatches stops after this many pages. Zero means no limit.
	MaxBatches int
}

// JournalReader exposes recorded submissions to the CLI.
type JournalReader interface {
	// History returns up to limit entries, newest first. When issue is
	// non-zero only that issue's entries are returned.
	History(ctx context.Context, issue, limit int) ([]domain.JournalEntry, error)
}

package driven

import (
	"context"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// MigrationJournal records ticket submissions for audit.
// It never decides eligibility: the processed label does.
type MigrationJournal interface {
	// Record appends an entry.
	Record(ctx context.Context, entry domain.JournalEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)

	// ForIssue returns every entry for an issue, newest first.
	ForIssue(ctx context.Context, number int) ([]domain.JournalEntry, error)
}

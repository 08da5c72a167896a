package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.MigrationJournal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.MigrationJournal.
// Entries live as long as the process.
type Journal struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an entry.
func (j *Journal) Record(_ context.Context, entry domain.JournalEntry) error {
	if entry.RunID == "" || entry.IssueNumber <= 0 {
		return fmt.Errorf("%w: journal entry needs a run id and issue number", domain.ErrInvalidInput)
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]domain.JournalEntry, 0, min(limit, len(j.entries)))
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

// ForIssue returns every entry for an issue, newest first.
func (j *Journal) ForIssue(_ context.Context, number int) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []domain.JournalEntry
	for i := len(j.entries) - 1; i >= 0; i-- {
		if j.entries[i].IssueNumber == number {
			out = append(out, j.entries[i])
		}
	}
	return out, nil
}

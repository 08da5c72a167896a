package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func entry(run string, issue int, outcome domain.Outcome, at time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		RunID:       run,
		IssueNumber: issue,
		TicketID:    int64(issue) * 10,
		Outcome:     outcome,
		Marked:      outcome == domain.OutcomeCreated,
		RecordedAt:  at,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("creates directories and applies migrations", func(t *testing.T) {
		store := setupTestStore(t)
		assert.FileExists(t, store.Path())

		v, err := store.schemaVersion()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("reopening is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.db")
		first, err := NewStore(path)
		require.NoError(t, err)
		require.NoError(t, first.Journal().Record(context.Background(), entry("r1", 1, domain.OutcomeCreated, time.Now())))
		require.NoError(t, first.Close())

		second, err := NewStore(path)
		require.NoError(t, err)
		defer second.Close()

		entries, err := second.Journal().Recent(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewStore("")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestJournal_RecordAndRead(t *testing.T) {
	ctx := context.Background()
	j := setupTestStore(t).Journal()
	base := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC)

	require.NoError(t, j.Record(ctx, entry("r1", 1, domain.OutcomeCreated, base)))
	require.NoError(t, j.Record(ctx, entry("r1", 2, domain.OutcomeRejected, base.Add(time.Second))))
	failed := entry("r2", 1, domain.OutcomeFailed, base.Add(2*time.Second))
	failed.Error = "freshdesk: create ticket: connection refused"
	require.NoError(t, j.Record(ctx, failed))

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "r2", recent[0].RunID)
	assert.Equal(t, domain.OutcomeFailed, recent[0].Outcome)
	assert.Equal(t, failed.Error, recent[0].Error)
	assert.Equal(t, 2, recent[1].IssueNumber)

	forIssue, err := j.ForIssue(ctx, 1)
	require.NoError(t, err)
	require.Len(t, forIssue, 2)
	assert.Equal(t, "r2", forIssue[0].RunID)
	assert.Equal(t, "r1", forIssue[1].RunID)
	assert.True(t, forIssue[1].Marked)
	assert.Equal(t, int64(10), forIssue[1].TicketID)
	assert.True(t, base.Equal(forIssue[1].RecordedAt))

	none, err := j.ForIssue(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournal_Validation(t *testing.T) {
	j := setupTestStore(t).Journal()

	err := j.Record(context.Background(), domain.JournalEntry{IssueNumber: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = j.Record(context.Background(), domain.JournalEntry{RunID: "r"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJournal_DefaultsTimestamp(t *testing.T) {
	j := setupTestStore(t).Journal()
	before := time.Now().Add(-time.Second)

	require.NoError(t, j.Record(context.Background(), domain.JournalEntry{RunID: "r", IssueNumber: 3, Outcome: domain.OutcomeDryRun}))

	entries, err := j.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].RecordedAt.After(before))
}

func TestJournal_RecentZeroLimit(t *testing.T) {
	entries, err := setupTestStore(t).Journal().Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

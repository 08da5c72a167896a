package domain

import (
	"fmt"
	"time"
)

// RunReport summarises one migration run.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	EndedAt   time.Time

	// Batches is the number of pages consumed.
	Batches int

	// Seen counts issue occurrences handed to the controller.
	Seen int

	// Skipped counts ineligible issues (processed, bot-authored, pull requests).
	Skipped int

	// Created counts tickets accepted by the desk.
	Created int

	// Rejected counts tickets the desk refused.
	Rejected int

	// Failed counts issues whose processing was aborted before the sink call.
	Failed int

	// Marked counts issues labelled as processed.
	Marked int

	// DryRun is true when no remote writes were made.
	DryRun bool
}

// String returns a one-line summary.
func (r RunReport) String() string {
	return fmt.Sprintf("%d seen, %d skipped, %d created, %d rejected, %d failed, %d marked",
		r.Seen, r.Skipped, r.Created, r.Rejected, r.Failed, r.Marked)
}

// Outcome is the result of one sink attempt recorded in the journal.
type Outcome string

// Journal outcomes.
const (
	OutcomeCreated  Outcome = "created"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
	OutcomeDryRun   Outcome = "dry-run"
)

// JournalEntry is an audit record of one ticket submission.
type JournalEntry struct {
	RunID       string
	IssueNumber int
	TicketID    int64
	Outcome     Outcome
	Marked      bool
	Error       string
	RecordedAt  time.Time
}

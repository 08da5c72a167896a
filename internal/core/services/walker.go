package services

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Eligibility decides whether an issue may become a ticket.
type Eligibility struct {
	// ProcessedLabel marks issues that already have a ticket.
	ProcessedLabel string

	// BotLogin is the account this system acts as. Empty disables the
	// author check.
	BotLogin string
}

// SkipReason returns why the issue is ineligible, or "" when it is eligible.
func (e Eligibility) SkipReason(issue domain.Issue) string {
	switch {
	case issue.PullRequest:
		return "pull request"
	case e.ProcessedLabel != "" && issue.HasLabel(e.ProcessedLabel):
		return "already processed"
	case e.BotLogin != "" && strings.EqualFold(issue.Author, e.BotLogin):
		return "authored by bot"
	}
	return ""
}

// Eligible reports whether the issue may become a ticket.
func (e Eligibility) Eligible(issue domain.Issue) bool {
	return e.SkipReason(issue) == ""
}

// Batch is the filtered content of one remote page.
type Batch struct {
	// Page is the 1-based page number.
	Page int

	// Issues are the eligible issues inside the time window, oldest first.
	Issues []domain.Issue

	// Ineligible counts issues dropped by the eligibility check.
	Ineligible int

	// OutOfWindow counts issues dropped by the time window.
	OutOfWindow int
}

// PaginationWalker pages through an IssueSource and yields filtered batches.
type PaginationWalker struct {
	source      driven.IssueSource
	eligibility Eligibility
}

// NewPaginationWalker creates a walker over source.
func NewPaginationWalker(source driven.IssueSource, eligibility Eligibility) *PaginationWalker {
	return &PaginationWalker{source: source, eligibility: eligibility}
}

// Batches returns a lazy sequence with one batch per page, starting at
// page 1. The sequence ends after an empty page, or after the page whose
// newest issue is at or past filter.To. A fetch error is yielded once and
// ends the sequence. Each call starts a fresh walk.
func (w *PaginationWalker) Batches(ctx context.Context, filter domain.IssuesFilter) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		for page := 1; ; page++ {
			issues, err := w.source.FetchPage(ctx, page, filter)
			if err != nil {
				yield(Batch{Page: page}, fmt.Errorf("fetch page %d: %w", page, err))
				return
			}
			if len(issues) == 0 {
				return
			}

			if !yield(w.filter(page, issues, filter), nil) {
				return
			}

			if filter.Crossed(issues[len(issues)-1].CreatedAt) {
				return
			}
		}
	}
}

func (w *PaginationWalker) filter(page int, issues []domain.Issue, filter domain.IssuesFilter) Batch {
	batch := Batch{Page: page, Issues: make([]domain.Issue, 0, len(issues))}
	for _, issue := range issues {
		if !w.eligibility.Eligible(issue) {
			batch.Ineligible++
			continue
		}
		if !filter.InWindow(issue.CreatedAt) {
			batch.OutOfWindow++
			continue
		}
		batch.Issues = append(batch.Issues, issue)
	}
	return batch
}

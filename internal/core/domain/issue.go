package domain

import (
	"slices"
	"time"
)

// Issue is a transient read copy of a remote tracker issue.
// The remote tracker owns the entity; this system only appends the
// processed label to it.
type Issue struct {
	// Number uniquely identifies the issue within its repository.
	Number int

	// Title is the issue headline.
	Title string

	// Body is the markdown description. Empty when the issue has none.
	Body string

	// State is "open" or "closed".
	State string

	// Author is the login of the user who opened the issue.
	Author string

	// Assignee is the login of the primary assignee. Empty when unassigned.
	Assignee string

	// Labels holds the label names currently set on the issue.
	Labels []string

	// CreatedAt is when the issue was opened.
	CreatedAt time.Time

	// URL is the web address of the issue.
	URL string

	// PullRequest is true when the entry is a pull request surfaced by the
	// issues endpoint.
	PullRequest bool
}

// HasLabel reports whether the issue carries the named label.
func (i *Issue) HasLabel(name string) bool {
	return slices.Contains(i.Labels, name)
}

// HasAssignee reports whether the issue is assigned to someone.
func (i *Issue) HasAssignee() bool {
	return i.Assignee != ""
}

// IssuesFilter bounds which issues a pagination run surfaces.
// It is immutable for the duration of one run and passed by value.
type IssuesFilter struct {
	// From excludes issues created at or before this instant. Zero means unbounded.
	From time.Time

	// To excludes issues created at or after this instant. Zero means unbounded.
	// It is also the watermark that stops pagination.
	To time.Time

	// IncludeOpen selects all issues instead of closed ones only.
	IncludeOpen bool
}

// HasFrom reports whether the lower bound is set.
func (f IssuesFilter) HasFrom() bool {
	return !f.From.IsZero()
}

// HasTo reports whether the upper bound (watermark) is set.
func (f IssuesFilter) HasTo() bool {
	return !f.To.IsZero()
}

// InWindow reports whether t falls strictly inside the filter's time window.
func (f IssuesFilter) InWindow(t time.Time) bool {
	if f.HasFrom() && !t.After(f.From) {
		return false
	}
	if f.HasTo() && !t.Before(f.To) {
		return false
	}
	return true
}

// Crossed reports whether t is at or beyond the watermark.
func (f IssuesFilter) Crossed(t time.Time) bool {
	return f.HasTo() && !t.Before(f.To)
}

// State returns the remote state selector for this filter.
func (f IssuesFilter) State() string {
	if f.IncludeOpen {
		return "all"
	}
	return "closed"
}

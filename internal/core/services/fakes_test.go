package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/logger"
)

const testLabel = "sent-to-freshdesk"

// fakeSource is an in-memory issue tracker. Pages are computed from the
// current remote state at fetch time, like the real API.
type fakeSource struct {
	mu        sync.Mutex
	issues    []domain.Issue
	pageSize  int
	refreshed bool

	refreshErr error
	pageErr    map[int]error
	markErr    error

	pagesFetched []int
	marked       []int
	events       *[]string
}

func newFakeSource(pageSize int, issues ...domain.Issue) *fakeSource {
	sorted := slices.Clone(issues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	return &fakeSource{issues: sorted, pageSize: pageSize, pageErr: map[int]error{}}
}

func (f *fakeSource) ProcessedLabel() string { return testLabel }

func (f *fakeSource) RefreshBudget(context.Context) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.refreshed = true
	return nil
}

func (f *fakeSource) FetchOne(_ context.Context, number int) (*domain.Issue, error) {
	if !f.refreshed {
		return nil, domain.ErrPreconditionViolated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, issue := range f.issues {
		if issue.Number == number {
			c := cloneIssue(issue)
			return &c, nil
		}
	}
	return nil, &domain.UpstreamError{Service: "github", Operation: "get issue", StatusCode: 404, Err: domain.ErrNotFound}
}

func (f *fakeSource) FetchPage(_ context.Context, page int, filter domain.IssuesFilter) ([]domain.Issue, error) {
	if !f.refreshed {
		return nil, domain.ErrPreconditionViolated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pagesFetched = append(f.pagesFetched, page)
	if err := f.pageErr[page]; err != nil {
		return nil, err
	}

	var visible []domain.Issue
	for _, issue := range f.issues {
		if filter.IncludeOpen || issue.State == "closed" {
			visible = append(visible, issue)
		}
	}

	start := (page - 1) * f.pageSize
	if start >= len(visible) {
		return []domain.Issue{}, nil
	}
	end := min(start+f.pageSize, len(visible))

	out := make([]domain.Issue, 0, end-start)
	for _, issue := range visible[start:end] {
		out = append(out, cloneIssue(issue))
	}
	return out, nil
}

func (f *fakeSource) MarkProcessed(_ context.Context, issue domain.Issue) (int, error) {
	if !f.refreshed {
		return 0, domain.ErrPreconditionViolated
	}
	if f.markErr != nil {
		return 0, f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.issues {
		if f.issues[i].Number == issue.Number {
			f.issues[i].Labels = append(slices.Clone(issue.Labels), testLabel)
		}
	}
	f.marked = append(f.marked, issue.Number)
	if f.events != nil {
		*f.events = append(*f.events, fmt.Sprintf("mark #%d", issue.Number))
	}
	return 200, nil
}

func cloneIssue(issue domain.Issue) domain.Issue {
	issue.Labels = slices.Clone(issue.Labels)
	return issue
}

// fakeSink records tickets. respond decides the outcome per call.
type fakeSink struct {
	tickets []domain.Ticket
	respond func(ticket domain.Ticket) (*domain.CreatedTicket, error)
	events  *[]string
	nextID  int64
}

func (s *fakeSink) CreateTicket(_ context.Context, ticket domain.Ticket) (*domain.CreatedTicket, error) {
	s.tickets = append(s.tickets, ticket)
	if s.events != nil {
		*s.events = append(*s.events, fmt.Sprintf("ticket #%d", ticket.IssueNumber))
	}
	if s.respond != nil {
		return s.respond(ticket)
	}
	s.nextID++
	return &domain.CreatedTicket{ID: 1000 + s.nextID, StatusCode: 201}, nil
}

func (s *fakeSink) issueNumbers() []int {
	numbers := make([]int, 0, len(s.tickets))
	for _, t := range s.tickets {
		numbers = append(numbers, t.IssueNumber)
	}
	return numbers
}

type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Render(body string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if body == "" {
		return "", nil
	}
	return "<p>" + body + "</p>", nil
}

type fakeResponders struct {
	ids map[string]int64
	err error
}

func (r fakeResponders) Lookup(login string) (int64, bool, error) {
	if r.err != nil {
		return 0, false, r.err
	}
	id, ok := r.ids[login]
	return id, ok, nil
}

func (r fakeResponders) KeyFor(login string) string {
	return "ASSIGNEE_MAP_" + login
}

type fakeJournal struct {
	entries []domain.JournalEntry
	err     error
}

func (j *fakeJournal) Record(_ context.Context, entry domain.JournalEntry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *fakeJournal) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	out := make([]domain.JournalEntry, 0, len(j.entries))
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

func (j *fakeJournal) ForIssue(_ context.Context, number int) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for i := len(j.entries) - 1; i >= 0; i-- {
		if j.entries[i].IssueNumber == number {
			out = append(out, j.entries[i])
		}
	}
	return out, nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func closedIssue(number int, created string, labels ...string) domain.Issue {
	return domain.Issue{
		Number:    number,
		Title:     fmt.Sprintf("Issue %d", number),
		Body:      fmt.Sprintf("body %d", number),
		State:     "closed",
		Author:    "octocat",
		Assignee:  "alice",
		Labels:    labels,
		CreatedAt: day(created),
	}
}

// captureLog redirects the package logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

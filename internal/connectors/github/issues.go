package github

import (
	gh "github.com/google/go-github/v80/github"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// listOptions builds the page request for filter. The page size is left
// to the API default.
func listOptions(page int, filter domain.IssuesFilter) *gh.IssueListByRepoOptions {
	return &gh.IssueListByRepoOptions{
		State:     filter.State(),
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			Page: page,
		},
	}
}

// toDomainIssue copies the fields the migration needs.
func toDomainIssue(issue *gh.Issue) domain.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		if name := l.GetName(); name != "" {
			labels = append(labels, name)
		}
	}

	return domain.Issue{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		State:       issue.GetState(),
		Author:      issue.GetUser().GetLogin(),
		Assignee:    issue.GetAssignee().GetLogin(),
		Labels:      labels,
		CreatedAt:   issue.GetCreatedAt().Time,
		URL:         issue.GetHTMLURL(),
		PullRequest: issue.IsPullRequest(),
	}
}

// withLabel returns labels plus name, without duplicating it.
func withLabel(labels []string, name string) []string {
	out := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		if l != name {
			out = append(out, l)
		}
	}
	return append(out, name)
}

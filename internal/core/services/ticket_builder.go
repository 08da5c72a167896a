package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// DefaultRequesterName is the requester shown on created tickets.
const DefaultRequesterName = "GitHub bot"

// DefaultTag is always the first ticket tag.
const DefaultTag = "github"

// TicketTemplate holds the ticket fields that do not come from the issue.
type TicketTemplate struct {
	Name       string
	ExternalID string
	Type       string
	Tag        string
	Status     domain.Status
	Priority   domain.Priority
	Source     domain.Source
	GroupID    int64
}

// DefaultTicketTemplate returns a resolved, medium priority portal ticket
// template. ExternalID and GroupID must still be set.
func DefaultTicketTemplate() TicketTemplate {
	return TicketTemplate{
		Name:     DefaultRequesterName,
		Tag:      DefaultTag,
		Status:   domain.StatusResolved,
		Priority: domain.PriorityMedium,
		Source:   domain.SourcePortal,
	}
}

// Validate checks the enum fields.
func (t TicketTemplate) Validate() error {
	var errs []error
	if !t.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: ticket status %d", domain.ErrInvalidInput, t.Status))
	}
	if !t.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: ticket priority %d", domain.ErrInvalidInput, t.Priority))
	}
	if !t.Source.Valid() {
		errs = append(errs, fmt.Errorf("%w: ticket source %d", domain.ErrInvalidInput, t.Source))
	}
	return errors.Join(errs...)
}

// TicketBuilder maps issues to desk tickets.
type TicketBuilder struct {
	template   TicketTemplate
	renderer   driven.MarkdownRenderer
	responders driven.ResponderDirectory
}

// NewTicketBuilder creates a builder.
func NewTicketBuilder(
	template TicketTemplate,
	renderer driven.MarkdownRenderer,
	responders driven.ResponderDirectory,
) *TicketBuilder {
	return &TicketBuilder{
		template:   template,
		renderer:   renderer,
		responders: responders,
	}
}

// Build returns the ticket for issue. An assignee without a responder
// mapping is a *domain.MissingConfigError naming the expected key.
func (b *TicketBuilder) Build(issue domain.Issue) (*domain.Ticket, error) {
	responder, err := b.responderFor(issue)
	if err != nil {
		return nil, err
	}

	description, err := b.renderer.Render(issue.Body)
	if err != nil {
		return nil, fmt.Errorf("render body of issue #%d: %w", issue.Number, err)
	}

	return &domain.Ticket{
		IssueNumber: issue.Number,
		Name:        b.template.Name,
		ExternalID:  b.template.ExternalID,
		Type:        b.template.Type,
		Subject:     Subject(issue),
		Tags:        b.tags(issue),
		Status:      b.template.Status,
		Priority:    b.template.Priority,
		Description: description,
		ResponderID: responder,
		GroupID:     b.template.GroupID,
		Source:      b.template.Source,
	}, nil
}

// Subject formats the ticket subject for issue.
func Subject(issue domain.Issue) string {
	return fmt.Sprintf("[Github#%d] - %s", issue.Number, issue.Title)
}

func (b *TicketBuilder) tags(issue domain.Issue) []string {
	tags := make([]string, 0, len(issue.Labels)+1)
	if b.template.Tag != "" {
		tags = append(tags, b.template.Tag)
	}
	for _, label := range issue.Labels {
		if !slices.Contains(tags, label) {
			tags = append(tags, label)
		}
	}
	return tags
}

func (b *TicketBuilder) responderFor(issue domain.Issue) (*int64, error) {
	if !issue.HasAssignee() {
		logger.Warn("Issue #%d has no assignee, creating ticket without responder", issue.Number)
		return nil, nil
	}

	id, ok, err := b.responders.Lookup(issue.Assignee)
	if err != nil {
		return nil, fmt.Errorf("look up responder for %s: %w", issue.Assignee, err)
	}
	if !ok {
		return nil, &domain.MissingConfigError{Key: b.responders.KeyFor(issue.Assignee)}
	}
	return &id, nil
}

package freshdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.TicketSink = (*Client)(nil)

// ticketPayload is the POST /api/v2/tickets body.
type ticketPayload struct {
	Name             string   `json:"name"`
	UniqueExternalID string   `json:"unique_external_id,omitempty"`
	Type             string   `json:"type,omitempty"`
	Subject          string   `json:"subject"`
	Tags             []string `json:"tags"`
	Status           int      `json:"status"`
	Priority         int      `json:"priority"`
	Description      string   `json:"description"`
	ResponderID      *int64   `json:"responder_id,omitempty"`
	GroupID          int64    `json:"group_id"`
	Source           int      `json:"source"`
}

func newTicketPayload(t domain.Ticket) ticketPayload {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return ticketPayload{
		Name:             t.Name,
		UniqueExternalID: t.ExternalID,
		Type:             t.Type,
		Subject:          t.Subject,
		Tags:             tags,
		Status:           int(t.Status),
		Priority:         int(t.Priority),
		Description:      t.Description,
		ResponderID:      t.ResponderID,
		GroupID:          t.GroupID,
		Source:           int(t.Source),
	}
}

// CreateTicket submits the ticket. Only 201 Created counts as success.
func (c *Client) CreateTicket(ctx context.Context, ticket domain.Ticket) (*domain.CreatedTicket, error) {
	payload, err := json.Marshal(newTicketPayload(ticket))
	if err != nil {
		return nil, fmt.Errorf("marshal ticket: %w", err)
	}

	res, err := c.do(ctx, http.MethodPost, "/api/v2/tickets", payload, "create ticket")
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusCreated {
		return nil, &RejectedError{StatusCode: res.StatusCode, Body: truncate(res.Body)}
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(res.Body, &created); err != nil {
		// The ticket exists; only the acknowledgement is unreadable.
		return &domain.CreatedTicket{StatusCode: res.StatusCode}, nil
	}
	return &domain.CreatedTicket{ID: created.ID, StatusCode: res.StatusCode}, nil
}

// Agent is a Freshdesk agent as listed by the API.
type Agent struct {
	ID      int64 `json:"id"`
	Contact struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"contact"`
}

// ListAgents returns the first page of agents. It is used to look up
// responder ids when building the assignee map.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/v2/agents?per_page=100", nil, "list agents")
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Service:    serviceName,
			Operation:  "list agents",
			StatusCode: res.StatusCode,
			Err:        errors.New(truncate(res.Body)),
		}
	}

	var agents []Agent
	if err := json.Unmarshal(res.Body, &agents); err != nil {
		return nil, fmt.Errorf("parse agents: %w", err)
	}
	return agents, nil
}

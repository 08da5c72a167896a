package domain

import "fmt"

// Status is the Freshdesk ticket status.
type Status int

// Ticket statuses.
const (
	StatusOpen     Status = 2
	StatusPending  Status = 3
	StatusResolved Status = 4
	StatusClosed   Status = 5
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusOpen && s <= StatusClosed
}

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Priority is the Freshdesk ticket priority.
type Priority int

// Ticket priorities.
const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// Source is the channel a ticket was raised through.
type Source int

// Ticket sources.
const (
	SourceEmail          Source = 1
	SourcePortal         Source = 2
	SourcePhone          Source = 3
	SourceChat           Source = 7
	SourceFeedbackWidget Source = 9
	SourceOutboundEmail  Source = 10
)

// Valid reports whether s is a known source channel.
func (s Source) Valid() bool {
	switch s {
	case SourceEmail, SourcePortal, SourcePhone, SourceChat, SourceFeedbackWidget, SourceOutboundEmail:
		return true
	}
	return false
}

// Ticket is the Freshdesk ticket built from one issue.
type Ticket struct {
	// IssueNumber links the ticket back to its source issue. Not sent remotely.
	IssueNumber int

	// Name is the requester display name.
	Name string

	// ExternalID is the requester's unique external id (the bot identity).
	ExternalID string

	// Type is the Freshdesk ticket type. Empty means the desk default.
	Type string

	Subject     string
	Tags        []string
	Status      Status
	Priority    Priority
	Description string

	// ResponderID is the agent the ticket is assigned to. Nil when the
	// issue has no assignee.
	ResponderID *int64

	GroupID int64
	Source  Source
}

// CreatedTicket is the desk's acknowledgement of a created ticket.
type CreatedTicket struct {
	ID         int64
	StatusCode int
}

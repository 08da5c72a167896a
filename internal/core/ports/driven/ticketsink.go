package driven

import (
	"context"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// TicketSink creates tickets in a support desk.
type TicketSink interface {
	// CreateTicket submits the ticket. A refusal by the desk returns an
	// error wrapping domain.ErrSinkRejected; transport failures return a
	// *domain.UpstreamError.
	CreateTicket(ctx context.Context, ticket domain.Ticket) (*domain.CreatedTicket, error)
}

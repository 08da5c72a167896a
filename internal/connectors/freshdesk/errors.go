package freshdesk

import (
	"fmt"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// serviceName labels upstream errors raised by this connector.
const serviceName = "freshdesk"

// maxBodyInError caps how much of a response body is echoed in errors.
const maxBodyInError = 512

// RejectedError is a non-success answer to a ticket submission.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("freshdesk: ticket rejected with status %d: %s", e.StatusCode, e.Body)
}

// Unwrap makes RejectedError match domain.ErrSinkRejected.
func (e *RejectedError) Unwrap() error {
	return domain.ErrSinkRejected
}

func truncate(body []byte) string {
	if len(body) > maxBodyInError {
		return string(body[:maxBodyInError]) + "..."
	}
	return string(body)
}

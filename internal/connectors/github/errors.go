package github

import (
	"errors"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// serviceName labels upstream errors raised by this connector.
const serviceName = "github"

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return statusOf(err) == 404 || errors.Is(err, domain.ErrNotFound)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return statusOf(err) == 401
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	return statusOf(err) == 403
}

func statusOf(err error) int {
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode
	}
	return 0
}

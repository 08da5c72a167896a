package freshdesk

import (
	"strings"
	"time"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a Freshdesk account.
type Config struct {
	// BaseURL is the account root, e.g. https://acme.freshdesk.com.
	BaseURL string

	// APIKey is the agent API key.
	APIKey string

	// Timeout bounds each HTTP request.
	// Default: DefaultTimeout
	Timeout time.Duration
}

// Validate checks the required fields and fills defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return &domain.MissingConfigError{Key: "FRESHDESK_BASE_URL"}
	}
	if c.APIKey == "" {
		return &domain.MissingConfigError{Key: "FRESHDESK_API_KEY"}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

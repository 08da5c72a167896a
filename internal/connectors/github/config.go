package github

import (
	"strings"
	"time"

	"github.com/optz/gh-freshdesk/internal/core/domain"
)

// DefaultProcessedLabel marks issues that already have a ticket.
const DefaultProcessedLabel = "sent-to-freshdesk"

// Config holds the settings for one GitHub repository.
type Config struct {
	// Owner and Repo identify the repository.
	Owner string
	Repo  string

	// Token is a personal access token or app token.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	// Default: https://api.github.com/
	BaseURL string

	// BotLogin is the login of this system's own bot account. Issues it
	// authored are never migrated. Empty disables the check.
	BotLogin string

	// ProcessedLabel is the sentinel label applied once a ticket exists.
	// Default: DefaultProcessedLabel
	ProcessedLabel string

	// GracePeriod is added to the rate limit reset time.
	// Default: DefaultGracePeriod
	GracePeriod time.Duration

	// ThrottleRPS spaces calls proactively. Zero disables throttling.
	ThrottleRPS float64
}

// Validate checks the required fields and fills defaults.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Owner) == "":
		return &domain.MissingConfigError{Key: "REPO_OWNER"}
	case strings.TrimSpace(c.Repo) == "":
		return &domain.MissingConfigError{Key: "REPO"}
	case c.Token == "":
		return &domain.MissingConfigError{Key: "GITHUB_TOKEN"}
	}
	if c.ProcessedLabel == "" {
		c.ProcessedLabel = DefaultProcessedLabel
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	return nil
}

// FullName returns owner/repo.
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}

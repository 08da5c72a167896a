package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/optz/gh-freshdesk/internal/connectors/freshdesk"
	"github.com/optz/gh-freshdesk/internal/connectors/github"
	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/services"
)

// DefaultEnvFile is read when no env file is named. Its absence is fine.
const DefaultEnvFile = ".env"

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"github.owner":           "REPO_OWNER",
	"github.repo":            "REPO",
	"github.token":           "GITHUB_TOKEN",
	"github.base_url":        "GITHUB_BASE_URL",
	"github.bot_login":       "GITHUB_BOT_LOGIN",
	"github.processed_label": "GITHUB_PROCESSED_LABEL",
	"github.grace_period":    "GITHUB_RATE_GRACE",
	"github.throttle_rps":    "GITHUB_THROTTLE_RPS",

	"freshdesk.base_url":       "FRESHDESK_BASE_URL",
	"freshdesk.api_key":        "FRESHDESK_API_KEY",
	"freshdesk.group_id":       "FRESHDESK_GROUP_ID",
	"freshdesk.bot_email":      "GITHUB_BOT_EMAIL",
	"freshdesk.requester_name": "FRESHDESK_REQUESTER_NAME",
	"freshdesk.ticket_type":    "FRESHDESK_TICKET_TYPE",
	"freshdesk.status":         "FRESHDESK_TICKET_STATUS",
	"freshdesk.priority":       "FRESHDESK_TICKET_PRIORITY",
	"freshdesk.source":         "FRESHDESK_TICKET_SOURCE",
	"freshdesk.tag":            "FRESHDESK_TICKET_TAG",
	"freshdesk.timeout":        "FRESHDESK_TIMEOUT",

	"responders.file": "RESPONDERS_FILE",
	"journal.path":    "JOURNAL_PATH",
}

// LoadOptions names the optional files to read.
type LoadOptions struct {
	// EnvFile is a dotenv file merged into the process environment without
	// overriding variables already set. Empty means DefaultEnvFile.
	EnvFile string

	// ConfigFile is a TOML, YAML or JSON file read by viper.
	ConfigFile string
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.processed_label", github.DefaultProcessedLabel)
	v.SetDefault("github.grace_period", github.DefaultGracePeriod)
	v.SetDefault("github.throttle_rps", 0)

	tpl := services.DefaultTicketTemplate()
	v.SetDefault("freshdesk.requester_name", tpl.Name)
	v.SetDefault("freshdesk.status", int(tpl.Status))
	v.SetDefault("freshdesk.priority", int(tpl.Priority))
	v.SetDefault("freshdesk.source", int(tpl.Source))
	v.SetDefault("freshdesk.tag", tpl.Tag)
	v.SetDefault("freshdesk.timeout", freshdesk.DefaultTimeout)
}

func bindEnvs(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// Validate reports the first missing required value, then any invalid one.
func (c Config) Validate() error {
	required := []struct {
		env string
		set bool
	}{
		{"REPO_OWNER", c.GitHub.Owner != ""},
		{"REPO", c.GitHub.Repo != ""},
		{"GITHUB_TOKEN", c.GitHub.Token != ""},
		{"FRESHDESK_BASE_URL", c.Freshdesk.BaseURL != ""},
		{"FRESHDESK_API_KEY", c.Freshdesk.APIKey != ""},
		{"FRESHDESK_GROUP_ID", c.Freshdesk.GroupID != 0},
		{"GITHUB_BOT_EMAIL", c.Freshdesk.BotEmail != ""},
	}
	for _, r := range required {
		if !r.set {
			return &domain.MissingConfigError{Key: r.env}
		}
	}

	if c.GitHub.GracePeriod < 0 {
		return fmt.Errorf("%w: github.grace_period must not be negative", domain.ErrInvalidInput)
	}
	if c.GitHub.ThrottleRPS < 0 {
		return fmt.Errorf("%w: github.throttle_rps must not be negative", domain.ErrInvalidInput)
	}
	return c.TicketTemplate().Validate()
}

// GitHubConnector returns the connector settings.
func (c Config) GitHubConnector() github.Config {
	return github.Config{
		Owner:          c.GitHub.Owner,
		Repo:           c.GitHub.Repo,
		Token:          c.GitHub.Token,
		BaseURL:        c.GitHub.BaseURL,
		BotLogin:       c.GitHub.BotLogin,
		ProcessedLabel: c.GitHub.ProcessedLabel,
		GracePeriod:    c.GitHub.GracePeriod,
		ThrottleRPS:    c.GitHub.ThrottleRPS,
	}
}

// FreshdeskClient returns the desk client settings.
func (c Config) FreshdeskClient() freshdesk.Config {
	return freshdesk.Config{
		BaseURL: c.Freshdesk.BaseURL,
		APIKey:  c.Freshdesk.APIKey,
		Timeout: c.Freshdesk.Timeout,
	}
}

// TicketTemplate returns the fixed ticket fields.
func (c Config) TicketTemplate() services.TicketTemplate {
	return services.TicketTemplate{
		Name:       c.Freshdesk.RequesterName,
		ExternalID: c.Freshdesk.BotEmail,
		Type:       c.Freshdesk.TicketType,
		Tag:        c.Freshdesk.Tag,
		Status:     domain.Status(c.Freshdesk.Status),
		Priority:   domain.Priority(c.Freshdesk.Priority),
		Source:     domain.Source(c.Freshdesk.Source),
		GroupID:    c.Freshdesk.GroupID,
	}
}


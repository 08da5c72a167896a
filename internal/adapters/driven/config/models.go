package config

import (
	"time"
)

// Config holds application configuration.
type Config struct {
	GitHub     GitHubConfig     `mapstructure:"github"`
	Freshdesk  FreshdeskConfig  `mapstructure:"freshdesk"`
	Responders RespondersConfig `mapstructure:"responders"`
	Journal    JournalConfig    `mapstructure:"journal"`
}

// GitHubConfig identifies the source repository.
type GitHubConfig struct {
	Owner          string        `mapstructure:"owner"`
	Repo           string        `mapstructure:"repo"`
	Token          string        `mapstructure:"token"`
	BaseURL        string        `mapstructure:"base_url"`
	BotLogin       string        `mapstructure:"bot_login"`
	ProcessedLabel string        `mapstructure:"processed_label"`
	GracePeriod    time.Duration `mapstructure:"grace_period"`
	ThrottleRPS    float64       `mapstructure:"throttle_rps"`
}

// FreshdeskConfig describes the target desk and the fixed ticket fields.
type FreshdeskConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	GroupID       int64         `mapstructure:"group_id"`
	BotEmail      string        `mapstructure:"bot_email"`
	RequesterName string        `mapstructure:"requester_name"`
	TicketType    string        `mapstructure:"ticket_type"`
	Status        int           `mapstructure:"status"`
	Priority      int           `mapstructure:"priority"`
	Source        int           `mapstructure:"source"`
	Tag           string        `mapstructure:"tag"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RespondersConfig points at an optional login to agent id file.
type RespondersConfig struct {
	File string `mapstructure:"file"`
}

// JournalConfig selects the run journal. An empty path keeps it in memory.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

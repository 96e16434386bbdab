// Package config provides YAML-based configuration loading for the back office.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default cron schedules (5-field expressions, server local time).
const (
	DefaultPullRequestCron = "0 6 * * *"
	DefaultTrackerCron     = "0 7 * * *"
)

// Config is the top-level configuration, loaded from backoffice.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	GitHub   GitHubConfig   `yaml:"github"`
	ClickUp  ClickUpConfig  `yaml:"clickup"`
	Sync     SyncConfig     `yaml:"sync"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// GitHubConfig holds the GitHub integration settings.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	APIBase string `yaml:"api_base"`
}

// ClickUpConfig holds the task-tracker integration settings.
type ClickUpConfig struct {
	Token   string `yaml:"token"`
	APIBase string `yaml:"api_base"`
}

// SyncConfig holds schedules and HTTP timeouts for the reconciliation jobs.
type SyncConfig struct {
	PullRequestCron    string `yaml:"pull_request_cron"`
	TrackerCron        string `yaml:"tracker_cron"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
}

// NotifyConfig holds optional chat notification settings for job summaries.
type NotifyConfig struct {
	Slack   SlackNotifyConfig   `yaml:"slack"`
	Discord DiscordNotifyConfig `yaml:"discord"`
}

// SlackNotifyConfig configures the Slack summary notifier.
type SlackNotifyConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DiscordNotifyConfig configures the Discord summary notifier.
type DiscordNotifyConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "backoffice"
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.GitHub.APIBase == "" {
		c.GitHub.APIBase = "https://api.github.com/"
	}
	if c.ClickUp.APIBase == "" {
		c.ClickUp.APIBase = "https://api.clickup.com/api/v2"
	}
	if c.Sync.PullRequestCron == "" {
		c.Sync.PullRequestCron = DefaultPullRequestCron
	}
	if c.Sync.TrackerCron == "" {
		c.Sync.TrackerCron = DefaultTrackerCron
	}
	if c.Sync.HTTPTimeoutSeconds == 0 {
		c.Sync.HTTPTimeoutSeconds = 10
	}
}

// applyEnv overrides secrets from the environment so tokens can stay out of
// the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("BACKOFFICE_GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("BACKOFFICE_CLICKUP_TOKEN"); v != "" {
		c.ClickUp.Token = v
	}
	if v := os.Getenv("BACKOFFICE_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

// validate checks that all required fields are present and consistent.
// Integration tokens are not required here: a missing token disables the
// corresponding sync job until provided, which the job reports loudly.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.Name == "" {
		errs = append(errs, "database.name is required")
	}
	if c.Sync.HTTPTimeoutSeconds < 1 {
		errs = append(errs, "sync.http_timeout_seconds must be at least 1")
	}
	if (c.Notify.Slack.Token == "") != (c.Notify.Slack.Channel == "") {
		errs = append(errs, "notify.slack requires both token and channel")
	}
	if (c.Notify.Discord.BotToken == "") != (c.Notify.Discord.Channel == "") {
		errs = append(errs, "notify.discord requires both bot_token and channel")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
server:
  port: 9090

database:
  host: 10.0.0.5
  port: 3307
  name: backoffice_prod
  user: billing
  password: hunter2

github:
  token: ghp_example
  api_base: https://github.example.com/api/v3/

clickup:
  token: pk_example
  api_base: https://api.clickup.com/api/v2

sync:
  pull_request_cron: "30 5 * * *"
  tracker_cron: "30 6 * * *"
  http_timeout_seconds: 5

notify:
  slack:
    token: xoxb-example
    channel: C123
  discord:
    bot_token: discord-example
    channel: "987"
`

const minimalYAML = `
database:
  name: backoffice_dev
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want 10.0.0.5", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Database.User != "billing" {
		t.Errorf("Database.User = %q, want billing", cfg.Database.User)
	}
	if cfg.GitHub.Token != "ghp_example" {
		t.Errorf("GitHub.Token = %q, want ghp_example", cfg.GitHub.Token)
	}
	if cfg.GitHub.APIBase != "https://github.example.com/api/v3/" {
		t.Errorf("GitHub.APIBase = %q", cfg.GitHub.APIBase)
	}
	if cfg.Sync.PullRequestCron != "30 5 * * *" {
		t.Errorf("Sync.PullRequestCron = %q, want 30 5 * * *", cfg.Sync.PullRequestCron)
	}
	if cfg.Sync.HTTPTimeoutSeconds != 5 {
		t.Errorf("Sync.HTTPTimeoutSeconds = %d, want 5", cfg.Sync.HTTPTimeoutSeconds)
	}
	if cfg.Notify.Slack.Channel != "C123" {
		t.Errorf("Notify.Slack.Channel = %q, want C123", cfg.Notify.Slack.Channel)
	}
	if cfg.Notify.Discord.Channel != "987" {
		t.Errorf("Notify.Discord.Channel = %q, want 987", cfg.Notify.Discord.Channel)
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want 127.0.0.1 (default)", cfg.Database.Host)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want 3306 (default)", cfg.Database.Port)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want root (default)", cfg.Database.User)
	}
	if cfg.GitHub.APIBase != "https://api.github.com/" {
		t.Errorf("GitHub.APIBase = %q, want GitHub default", cfg.GitHub.APIBase)
	}
	if cfg.ClickUp.APIBase != "https://api.clickup.com/api/v2" {
		t.Errorf("ClickUp.APIBase = %q, want ClickUp default", cfg.ClickUp.APIBase)
	}
	if cfg.Sync.PullRequestCron != DefaultPullRequestCron {
		t.Errorf("Sync.PullRequestCron = %q, want %q", cfg.Sync.PullRequestCron, DefaultPullRequestCron)
	}
	if cfg.Sync.TrackerCron != DefaultTrackerCron {
		t.Errorf("Sync.TrackerCron = %q, want %q", cfg.Sync.TrackerCron, DefaultTrackerCron)
	}
	if cfg.Sync.HTTPTimeoutSeconds != 10 {
		t.Errorf("Sync.HTTPTimeoutSeconds = %d, want 10 (default)", cfg.Sync.HTTPTimeoutSeconds)
	}
}

func TestParse_EnvOverridesTokens(t *testing.T) {
	t.Setenv("BACKOFFICE_GITHUB_TOKEN", "env-github")
	t.Setenv("BACKOFFICE_CLICKUP_TOKEN", "env-clickup")
	t.Setenv("BACKOFFICE_DB_PASSWORD", "env-password")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GitHub.Token != "env-github" {
		t.Errorf("GitHub.Token = %q, want env-github", cfg.GitHub.Token)
	}
	if cfg.ClickUp.Token != "env-clickup" {
		t.Errorf("ClickUp.Token = %q, want env-clickup", cfg.ClickUp.Token)
	}
	if cfg.Database.Password != "env-password" {
		t.Errorf("Database.Password = %q, want env-password", cfg.Database.Password)
	}
}

func TestParse_MissingTokens_StillValid(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GitHub.Token != "" || cfg.ClickUp.Token != "" {
		t.Errorf("tokens = (%q, %q), want empty", cfg.GitHub.Token, cfg.ClickUp.Token)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "half-configured slack",
			yaml: "notify:\n  slack:\n    token: xoxb-x\n",
			want: "notify.slack",
		},
		{
			name: "half-configured discord",
			yaml: "notify:\n  discord:\n    channel: \"1\"\n",
			want: "notify.discord",
		},
		{
			name: "negative timeout",
			yaml: "sync:\n  http_timeout_seconds: -1\n",
			want: "http_timeout_seconds",
		},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.yaml))
		if err == nil {
			t.Errorf("%s: expected error, got nil", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not mention %q", c.name, err, c.want)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backoffice.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Name != "backoffice_dev" {
		t.Errorf("Database.Name = %q, want backoffice_dev", cfg.Database.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("server: [not a map")); err == nil {
		t.Error("expected parse error, got nil")
	}
}

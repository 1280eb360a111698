package config

import (
	"strings"
	"testing"
	"time"
)

const fullYAML = `
application_id: "100200300"
bot_token: token-from-file

database:
  host: 10.0.0.5
  port: 3307
  database: slashforge_prod

api:
  port: 9090

sync:
  poll_interval: 30s
  event_batch: 25
  resync_schedule: "0 4 * * *"
`

const minimalYAML = `
application_id: "100200300"
bot_token: tok
`

func TestParse_FullConfig(t *testing.T) {
	t.Setenv(EnvBotToken, "")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ApplicationID != "100200300" {
		t.Errorf("ApplicationID = %q, want 100200300", cfg.ApplicationID)
	}
	if cfg.BotToken != "token-from-file" {
		t.Errorf("BotToken = %q, want token-from-file", cfg.BotToken)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want 10.0.0.5", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Database.Database != "slashforge_prod" {
		t.Errorf("Database.Database = %q, want slashforge_prod", cfg.Database.Database)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Sync.PollInterval != 30*time.Second {
		t.Errorf("Sync.PollInterval = %v, want 30s", cfg.Sync.PollInterval)
	}
	if cfg.Sync.EventBatch != 25 {
		t.Errorf("Sync.EventBatch = %d, want 25", cfg.Sync.EventBatch)
	}
	if cfg.Sync.ResyncSchedule != "0 4 * * *" {
		t.Errorf("Sync.ResyncSchedule = %q, want 0 4 * * *", cfg.Sync.ResyncSchedule)
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	t.Setenv(EnvBotToken, "")

	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want 127.0.0.1 (default)", cfg.Database.Host)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want 3306 (default)", cfg.Database.Port)
	}
	if cfg.Database.Database != "slashforge" {
		t.Errorf("Database.Database = %q, want slashforge (default)", cfg.Database.Database)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080 (default)", cfg.API.Port)
	}
	if cfg.Sync.PollInterval != 10*time.Second {
		t.Errorf("Sync.PollInterval = %v, want 10s (default)", cfg.Sync.PollInterval)
	}
	if cfg.Sync.EventBatch != 10 {
		t.Errorf("Sync.EventBatch = %d, want 10 (default)", cfg.Sync.EventBatch)
	}
	if cfg.Sync.ResyncSchedule != "" {
		t.Errorf("Sync.ResyncSchedule = %q, want empty (optional)", cfg.Sync.ResyncSchedule)
	}
}

func TestParse_EnvTokenOverridesFile(t *testing.T) {
	t.Setenv(EnvBotToken, "env-token")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BotToken != "env-token" {
		t.Errorf("BotToken = %q, want env-token (env override)", cfg.BotToken)
	}
}

func TestParse_MissingApplicationID(t *testing.T) {
	t.Setenv(EnvBotToken, "")

	_, err := Parse([]byte("bot_token: tok\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "application_id is required") {
		t.Errorf("error = %q, want to mention application_id", err)
	}
}

func TestParse_MissingToken(t *testing.T) {
	t.Setenv(EnvBotToken, "")

	_, err := Parse([]byte("application_id: \"1\"\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "bot_token is required") {
		t.Errorf("error = %q, want to mention bot_token", err)
	}
	if !strings.Contains(err.Error(), EnvBotToken) {
		t.Errorf("error = %q, want to mention %s", err, EnvBotToken)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("{not yaml"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/slashforge.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want config: read prefix", err)
	}
}

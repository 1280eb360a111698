// Package config provides YAML-based configuration loading for Slashforge.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvBotToken is the environment variable that overrides the configured bot
// token. Preferred over putting the secret in the YAML file.
const EnvBotToken = "DISCORD_BOT_TOKEN"

// Config is the top-level Slashforge configuration, loaded from
// slashforge.yaml.
type Config struct {
	ApplicationID string     `yaml:"application_id"`
	BotToken      string     `yaml:"bot_token"`
	Database      DBConfig   `yaml:"database"`
	API           APIConfig  `yaml:"api"`
	Sync          SyncConfig `yaml:"sync"`
}

// DBConfig holds connection settings for the MySQL server.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// APIConfig holds settings for the dashboard HTTP API.
type APIConfig struct {
	Port int `yaml:"port"`
}

// SyncConfig holds settings for the command sync engine.
type SyncConfig struct {
	PollInterval   time.Duration `yaml:"-"`
	EventBatch     int           `yaml:"event_batch"`
	ResyncSchedule string        `yaml:"resync_schedule"` // 5-field cron, optional
}

// UnmarshalYAML parses poll_interval from a duration string like "30s".
func (s *SyncConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		PollInterval   string `yaml:"poll_interval"`
		EventBatch     int    `yaml:"event_batch"`
		ResyncSchedule string `yaml:"resync_schedule"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("poll_interval: %w", err)
		}
		s.PollInterval = d
	}
	s.EventBatch = raw.EventBatch
	s.ResyncSchedule = raw.ResyncSchedule
	return nil
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. The bot token env
// variable, when set, takes precedence over the file value.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if tok := os.Getenv(EnvBotToken); tok != "" {
		cfg.BotToken = tok
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Database == "" {
		c.Database.Database = "slashforge"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Sync.PollInterval <= 0 {
		c.Sync.PollInterval = 10 * time.Second
	}
	if c.Sync.EventBatch <= 0 {
		c.Sync.EventBatch = 10
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.ApplicationID == "" {
		errs = append(errs, "application_id is required")
	}
	if c.BotToken == "" {
		errs = append(errs, fmt.Sprintf("bot_token is required (or set %s)", EnvBotToken))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

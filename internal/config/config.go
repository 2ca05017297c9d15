// Package config loads application configuration from a YAML file with
// environment variable overrides. Defaults are applied before parsing so a
// missing file section never leaves a zero value where the application
// expects a sane default.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	SES      SESConfig      `yaml:"ses"`
	Outreach OutreachConfig `yaml:"outreach"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, listening on all interfaces in containers.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the Redis connection used by the rate limiter.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// SESConfig holds AWS SES API configuration for the email dispatcher.
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	FromName       string `yaml:"from_name"`
	FromEmail      string `yaml:"from_email"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured dispatch timeout as a duration.
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OutreachConfig holds the compliance-and-approval layer settings.
type OutreachConfig struct {
	// DailySendLimit caps outgoing sends per UTC calendar day.
	DailySendLimit int `yaml:"daily_send_limit"`
	// PreviewMode simulates dispatch instead of calling the provider.
	// On by default so a fresh deployment cannot send real mail.
	PreviewMode bool `yaml:"preview_mode"`
	// LeadKeywords is a comma-separated list scored against target text.
	LeadKeywords string `yaml:"lead_keywords"`
	// FollowUpDays is the suggested gap between a send and its follow-up.
	FollowUpDays int `yaml:"follow_up_days"`
	// TemplateDir is the directory holding outreach templates (*.txt).
	TemplateDir string `yaml:"template_dir"`
}

// Keywords returns the configured lead keywords, trimmed, empty entries
// removed.
func (c OutreachConfig) Keywords() []string {
	var out []string
	for _, k := range strings.Split(c.LeadKeywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Host: "localhost"},
		SES:    SESConfig{Region: "us-west-2", TimeoutSeconds: 30},
		Outreach: OutreachConfig{
			DailySendLimit: 20,
			PreviewMode:    true,
			FollowUpDays:   7,
			TemplateDir:    "templates/outreach",
		},
	}
}

// Load reads and parses the configuration file. Defaults are populated
// before parsing, so only keys present in the file override them (this is
// what keeps preview_mode defaulting to true rather than to the bool zero
// value).
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Outreach.DailySendLimit <= 0 {
		cfg.Outreach.DailySendLimit = 20
	}
	if cfg.Outreach.FollowUpDays <= 0 {
		cfg.Outreach.FollowUpDays = 7
	}
	if cfg.SES.TimeoutSeconds <= 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	return cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}
	if v := os.Getenv("OUTREACH_FROM_EMAIL"); v != "" {
		cfg.SES.FromEmail = v
	}
	if v := os.Getenv("OUTREACH_DAILY_SEND_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Outreach.DailySendLimit = n
		}
	}
	if v := os.Getenv("OUTREACH_PREVIEW_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Outreach.PreviewMode = b
		}
	}
	if v := os.Getenv("OUTREACH_LEAD_KEYWORDS"); v != "" {
		cfg.Outreach.LeadKeywords = v
	}

	return cfg, nil
}

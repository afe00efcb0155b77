package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	DryRun       bool   `yaml:"dry_run"`
}

type WhatsAppConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	DryRun  bool   `yaml:"dry_run"`
}

type NotificationsConfig struct {
	InactivityEmails []string `yaml:"inactivity_emails"`
	InactivityPhones []string `yaml:"inactivity_phones"`
	Timezone         string   `yaml:"timezone"`
	Locale           string   `yaml:"locale"`
}

type SchedulerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	InactivityCheck string `yaml:"inactivity_check"` // HH:MM
	PendingDigest   string `yaml:"pending_digest"`   // HH:MM
}

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"auth"`
	Email         EmailConfig         `yaml:"email"`
	WhatsApp      WhatsAppConfig      `yaml:"whatsapp"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	PDF           struct {
		FontPath string `yaml:"font_path"`
	} `yaml:"pdf"`
}

// LoadConfig reads the YAML file at CONFIG_PATH (or config/config.yaml),
// applies environment overrides for secrets and fills defaults.
func LoadConfig() (*Config, error) {
	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes cfg from r and applies overrides and defaults.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.SMTPPassword = v
	}
	if v := strings.TrimSpace(os.Getenv("WHATSAPP_TOKEN")); v != "" {
		c.WhatsApp.Token = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Auth.AccessTTL <= 0 {
		c.Auth.AccessTTL = 15 * time.Minute
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Notifications.Timezone == "" {
		c.Notifications.Timezone = "Asia/Dubai"
	}
	if c.Notifications.Locale == "" {
		c.Notifications.Locale = "en"
	}
	if c.Scheduler.InactivityCheck == "" {
		c.Scheduler.InactivityCheck = "09:00"
	}
	if c.Scheduler.PendingDigest == "" {
		c.Scheduler.PendingDigest = "08:00"
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if _, err := time.LoadLocation(c.Notifications.Timezone); err != nil {
		return fmt.Errorf("notifications.timezone: %w", err)
	}
	return nil
}

// Location returns the timezone used for "today" in scheduled jobs.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Notifications.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

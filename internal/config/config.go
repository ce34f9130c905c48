// Package config handles configuration loading for pipewatch.
// Values come from an optional YAML file with environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port
	HTTPPort int

	// Trailing window over which pipeline metrics are aggregated
	MetricsWindow time.Duration

	// OTLP collector endpoint for traces
	OTELEndpoint string

	// Slack incoming-webhook URL; empty disables the slack channel
	SlackWebhookURL string

	// SMTP transport; missing user/pass disables the email channel
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	AlertRecipients []string

	// Webhook ingestion rate limit per source address; 0 means unlimited
	WebhookRateLimit float64
	WebhookRateBurst int
}

// Load reads configuration from the given YAML file (if any) and the
// environment. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_port", 8080)
	v.SetDefault("metrics_window", "168h")
	v.SetDefault("otel_endpoint", "localhost:4317")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("webhook_rate_limit", 0.0)
	v.SetDefault("webhook_rate_burst", 10)

	// Keep the env surface compatible with the names the deployment
	// already uses (DATABASE_URL, SLACK_WEBHOOK_URL, SMTP_*, ...).
	bindings := map[string]string{
		"database_url":       "DATABASE_URL",
		"http_port":          "PORT",
		"metrics_window":     "METRICS_WINDOW",
		"otel_endpoint":      "OTEL_EXPORTER_OTLP_ENDPOINT",
		"slack_webhook_url":  "SLACK_WEBHOOK_URL",
		"smtp_host":          "SMTP_HOST",
		"smtp_port":          "SMTP_PORT",
		"smtp_user":          "SMTP_USER",
		"smtp_pass":          "SMTP_PASS",
		"alert_recipients":   "ALERT_EMAIL_RECIPIENTS",
		"webhook_rate_limit": "WEBHOOK_RATE_LIMIT",
		"webhook_rate_burst": "WEBHOOK_RATE_BURST",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if v.GetString("database_url") == "" {
		return nil, fmt.Errorf("database_url is required (env: DATABASE_URL)")
	}

	window, err := time.ParseDuration(v.GetString("metrics_window"))
	if err != nil {
		return nil, fmt.Errorf("invalid metrics_window: %w", err)
	}

	return &Config{
		DatabaseURL:      v.GetString("database_url"),
		HTTPPort:         v.GetInt("http_port"),
		MetricsWindow:    window,
		OTELEndpoint:     v.GetString("otel_endpoint"),
		SlackWebhookURL:  v.GetString("slack_webhook_url"),
		SMTPHost:         v.GetString("smtp_host"),
		SMTPPort:         v.GetInt("smtp_port"),
		SMTPUser:         v.GetString("smtp_user"),
		SMTPPass:         v.GetString("smtp_pass"),
		AlertRecipients:  splitRecipients(v.GetString("alert_recipients")),
		WebhookRateLimit: v.GetFloat64("webhook_rate_limit"),
		WebhookRateBurst: v.GetInt("webhook_rate_burst"),
	}, nil
}

// splitRecipients parses a comma-separated recipient list.
func splitRecipients(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

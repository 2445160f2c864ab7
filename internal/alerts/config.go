package alerts

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds notification sink parameters. An empty webhook URL disables
// notification entirely; audit recording is always on.
type Config struct {
	WebhookURL    string `toml:"webhook_url"`
	NotifyTimeout string `toml:"notify_timeout"`
	RetryBackoff  string `toml:"retry_backoff"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	WebhookURL    string
	NotifyTimeout string
	RetryBackoff  string
}

// Enabled reports whether webhook notification is configured.
func (c *Config) Enabled() bool {
	return c.WebhookURL != ""
}

// NotifyTimeoutDuration returns NotifyTimeout as a time.Duration.
func (c *Config) NotifyTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.NotifyTimeout)
	return d
}

// RetryBackoffDuration returns RetryBackoff as a time.Duration.
func (c *Config) RetryBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryBackoff)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.NotifyTimeout != "" {
		c.NotifyTimeout = overlay.NotifyTimeout
	}
	if overlay.RetryBackoff != "" {
		c.RetryBackoff = overlay.RetryBackoff
	}
}

func (c *Config) loadDefaults() {
	if c.NotifyTimeout == "" {
		c.NotifyTimeout = "5s"
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "2s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.WebhookURL != "" {
		if v := os.Getenv(env.WebhookURL); v != "" {
			c.WebhookURL = v
		}
	}
	if env.NotifyTimeout != "" {
		if v := os.Getenv(env.NotifyTimeout); v != "" {
			c.NotifyTimeout = v
		}
	}
	if env.RetryBackoff != "" {
		if v := os.Getenv(env.RetryBackoff); v != "" {
			c.RetryBackoff = v
		}
	}
}

func (c *Config) validate() error {
	if c.Enabled() {
		if _, err := url.ParseRequestURI(c.WebhookURL); err != nil {
			return fmt.Errorf("invalid webhook_url: %w", err)
		}
	}
	if _, err := time.ParseDuration(c.NotifyTimeout); err != nil {
		return fmt.Errorf("invalid notify_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.RetryBackoff); err != nil {
		return fmt.Errorf("invalid retry_backoff: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/alerts"
	"github.com/pixelated-empathy/bias-engine/internal/bridge"
	"github.com/pixelated-empathy/bias-engine/pkg/archive"
	"github.com/pixelated-empathy/bias-engine/pkg/cache"
	"github.com/pixelated-empathy/bias-engine/pkg/database"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvBiasEnv             = "BIAS_ENV"
	EnvBiasShutdownTimeout = "BIAS_SHUTDOWN_TIMEOUT"
	EnvBiasVersion         = "BIAS_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "BIAS_DB_HOST",
	Port:            "BIAS_DB_PORT",
	Name:            "BIAS_DB_NAME",
	User:            "BIAS_DB_USER",
	Password:        "BIAS_DB_PASSWORD",
	SSLMode:         "BIAS_DB_SSL_MODE",
	MaxOpenConns:    "BIAS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "BIAS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "BIAS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "BIAS_DB_CONN_TIMEOUT",
}

var bridgeEnv = &bridge.Env{
	Endpoint:     "BIAS_BRIDGE_ENDPOINT",
	Timeout:      "BIAS_BRIDGE_TIMEOUT",
	RetryBackoff: "BIAS_BRIDGE_RETRY_BACKOFF",
}

var cacheEnv = &cache.Env{
	Driver:        "BIAS_CACHE_DRIVER",
	TTL:           "BIAS_CACHE_TTL",
	Capacity:      "BIAS_CACHE_CAPACITY",
	RedisAddr:     "BIAS_CACHE_REDIS_ADDR",
	RedisPassword: "BIAS_CACHE_REDIS_PASSWORD",
	RedisDB:       "BIAS_CACHE_REDIS_DB",
}

var alertsEnv = &alerts.Env{
	WebhookURL:    "BIAS_ALERTS_WEBHOOK_URL",
	NotifyTimeout: "BIAS_ALERTS_NOTIFY_TIMEOUT",
	RetryBackoff:  "BIAS_ALERTS_RETRY_BACKOFF",
}

var archiveEnv = &archive.Env{
	ContainerName:    "BIAS_ARCHIVE_CONTAINER_NAME",
	ConnectionString: "BIAS_ARCHIVE_CONNECTION_STRING",
}

// Config is the root configuration for the bias engine service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Engine          EngineConfig    `toml:"engine"`
	Bridge          bridge.Config   `toml:"bridge"`
	Cache           cache.Config    `toml:"cache"`
	Alerts          alerts.Config   `toml:"alerts"`
	Archive         archive.Config  `toml:"archive"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the BIAS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvBiasEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Engine.Merge(&overlay.Engine)
	c.Bridge.Merge(&overlay.Bridge)
	c.Cache.Merge(&overlay.Cache)
	c.Alerts.Merge(&overlay.Alerts)
	c.Archive.Merge(&overlay.Archive)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Engine.Finalize(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Bridge.Finalize(bridgeEnv); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Alerts.Finalize(alertsEnv); err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	if err := c.Archive.Finalize(archiveEnv); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvBiasShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvBiasVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvBiasEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds cache driver selection, TTL, and capacity parameters.
type Config struct {
	Driver   string      `toml:"driver"`
	TTL      string      `toml:"ttl"`
	Capacity int         `toml:"capacity"`
	Redis    RedisConfig `toml:"redis"`
}

// RedisConfig holds connection parameters for the redis driver.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver        string
	TTL           string
	Capacity      string
	RedisAddr     string
	RedisPassword string
	RedisDB       string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
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
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.Capacity != 0 {
		c.Capacity = overlay.Capacity
	}
	if overlay.Redis.Addr != "" {
		c.Redis.Addr = overlay.Redis.Addr
	}
	if overlay.Redis.Password != "" {
		c.Redis.Password = overlay.Redis.Password
	}
	if overlay.Redis.DB != 0 {
		c.Redis.DB = overlay.Redis.DB
	}
	if overlay.Redis.KeyPrefix != "" {
		c.Redis.KeyPrefix = overlay.Redis.KeyPrefix
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.TTL == "" {
		c.TTL = "1h"
	}
	if c.Capacity == 0 {
		c.Capacity = 1024
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "bias:analysis:"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
	if env.Capacity != "" {
		if v := os.Getenv(env.Capacity); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.Capacity = n
			}
		}
	}
	if env.RedisAddr != "" {
		if v := os.Getenv(env.RedisAddr); v != "" {
			c.Redis.Addr = v
		}
	}
	if env.RedisPassword != "" {
		if v := os.Getenv(env.RedisPassword); v != "" {
			c.Redis.Password = v
		}
	}
	if env.RedisDB != "" {
		if v := os.Getenv(env.RedisDB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Redis.DB = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Driver != DriverMemory && c.Driver != DriverRedis {
		return fmt.Errorf("%w: %s", ErrUnknownDriver, c.Driver)
	}
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be positive: %d", c.Capacity)
	}
	if c.Driver == DriverRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis driver requires addr")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

const (
	EnvEngineWarningLevel      = "BIAS_ENGINE_WARNING_LEVEL"
	EnvEngineHighLevel         = "BIAS_ENGINE_HIGH_LEVEL"
	EnvEngineCriticalLevel     = "BIAS_ENGINE_CRITICAL_LEVEL"
	EnvEngineExtractionTimeout = "BIAS_ENGINE_EXTRACTION_TIMEOUT"
)

// EngineConfig holds alert thresholds and the per-dimension extraction
// timeout. The threshold ordering invariant is enforced here, at load time;
// a violation fails startup rather than surfacing during analysis.
type EngineConfig struct {
	WarningLevel      float64 `toml:"warning_level"`
	HighLevel         float64 `toml:"high_level"`
	CriticalLevel     float64 `toml:"critical_level"`
	ExtractionTimeout string  `toml:"extraction_timeout"`
}

// Thresholds returns the configured alert tier boundaries.
func (c *EngineConfig) Thresholds() engine.Thresholds {
	return engine.Thresholds{
		Warning:  c.WarningLevel,
		High:     c.HighLevel,
		Critical: c.CriticalLevel,
	}
}

// ExtractionTimeoutDuration returns ExtractionTimeout as a time.Duration.
func (c *EngineConfig) ExtractionTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExtractionTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.WarningLevel != 0 {
		c.WarningLevel = overlay.WarningLevel
	}
	if overlay.HighLevel != 0 {
		c.HighLevel = overlay.HighLevel
	}
	if overlay.CriticalLevel != 0 {
		c.CriticalLevel = overlay.CriticalLevel
	}
	if overlay.ExtractionTimeout != "" {
		c.ExtractionTimeout = overlay.ExtractionTimeout
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.WarningLevel == 0 {
		c.WarningLevel = 0.3
	}
	if c.HighLevel == 0 {
		c.HighLevel = 0.6
	}
	if c.CriticalLevel == 0 {
		c.CriticalLevel = 0.8
	}
	if c.ExtractionTimeout == "" {
		c.ExtractionTimeout = "3s"
	}
}

func (c *EngineConfig) loadEnv() {
	setLevel := func(envVar string, target *float64) {
		if v := os.Getenv(envVar); v != "" {
			if level, err := strconv.ParseFloat(v, 64); err == nil {
				*target = level
			}
		}
	}

	setLevel(EnvEngineWarningLevel, &c.WarningLevel)
	setLevel(EnvEngineHighLevel, &c.HighLevel)
	setLevel(EnvEngineCriticalLevel, &c.CriticalLevel)

	if v := os.Getenv(EnvEngineExtractionTimeout); v != "" {
		c.ExtractionTimeout = v
	}
}

func (c *EngineConfig) validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.ExtractionTimeout); err != nil {
		return fmt.Errorf("invalid extraction_timeout: %w", err)
	}
	return nil
}

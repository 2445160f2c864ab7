package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixelated-empathy/bias-engine/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "1.2.0"

[server]
host = "0.0.0.0"
port = 8080

[database]
name = "bias"
user = "bias"
password = "bias"

[engine]
warning_level = 0.25
high_level = 0.55
critical_level = 0.85
extraction_timeout = "2s"

[bridge]
endpoint = "http://inference:5001/analyze"

[cache]
driver = "memory"
ttl = "30m"
capacity = 512

[alerts]
webhook_url = "https://hooks.example.com/bias"

[api]
base_path = "/api"
`

const overlayConfig = `
[server]
port = 9090

[bridge]
endpoint = "http://staging-inference:5001/analyze"
`

const minimalConfig = `
[database]
name = "bias"
user = "bias"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"version", cfg.Version, "1.2.0"},
		{"server port", cfg.Server.Port, 8080},
		{"warning level", cfg.Engine.WarningLevel, 0.25},
		{"high level", cfg.Engine.HighLevel, 0.55},
		{"critical level", cfg.Engine.CriticalLevel, 0.85},
		{"extraction timeout", cfg.Engine.ExtractionTimeout, "2s"},
		{"bridge endpoint", cfg.Bridge.Endpoint, "http://inference:5001/analyze"},
		{"cache ttl", cfg.Cache.TTL, "30m"},
		{"cache capacity", cfg.Cache.Capacity, 512},
		{"webhook url", cfg.Alerts.WebhookURL, "https://hooks.example.com/bias"},
		{"alerts enabled", cfg.Alerts.Enabled(), true},
		{"archive disabled", cfg.Archive.Enabled(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv("BIAS_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want overlay value 9090", cfg.Server.Port)
	}
	if cfg.Bridge.Endpoint != "http://staging-inference:5001/analyze" {
		t.Errorf("endpoint = %q, want overlay value", cfg.Bridge.Endpoint)
	}
	if cfg.Engine.HighLevel != 0.55 {
		t.Errorf("high level = %v, want base value 0.55", cfg.Engine.HighLevel)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"warning level", cfg.Engine.WarningLevel, 0.3},
		{"high level", cfg.Engine.HighLevel, 0.6},
		{"critical level", cfg.Engine.CriticalLevel, 0.8},
		{"extraction timeout", cfg.Engine.ExtractionTimeout, "3s"},
		{"bridge endpoint", cfg.Bridge.Endpoint, "http://localhost:5001/analyze"},
		{"cache driver", cfg.Cache.Driver, "memory"},
		{"max body size", cfg.API.MaxBodySize, "2MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("BIAS_ENGINE_WARNING_LEVEL", "0.2")
	t.Setenv("BIAS_ENGINE_HIGH_LEVEL", "0.5")
	t.Setenv("BIAS_ENGINE_CRITICAL_LEVEL", "0.75")
	t.Setenv("BIAS_BRIDGE_ENDPOINT", "http://env-backend:5001/analyze")
	t.Setenv("BIAS_CACHE_TTL", "10m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Engine.WarningLevel != 0.2 || cfg.Engine.HighLevel != 0.5 || cfg.Engine.CriticalLevel != 0.75 {
		t.Errorf("thresholds = %+v, want env values", cfg.Engine.Thresholds())
	}
	if cfg.Bridge.Endpoint != "http://env-backend:5001/analyze" {
		t.Errorf("endpoint = %q, want env value", cfg.Bridge.Endpoint)
	}
	if cfg.Cache.TTL != "10m" {
		t.Errorf("ttl = %q, want env value", cfg.Cache.TTL)
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig+`
[engine]
warning_level = 0.8
high_level = 0.6
critical_level = 0.3
`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Error("expected load failure for inverted thresholds")
	}
}

func TestEngineConfigMerge(t *testing.T) {
	base := config.EngineConfig{WarningLevel: 0.3, HighLevel: 0.6, CriticalLevel: 0.8, ExtractionTimeout: "3s"}
	overlay := config.EngineConfig{HighLevel: 0.65}

	base.Merge(&overlay)

	if base.HighLevel != 0.65 {
		t.Errorf("high = %v, want overlay value", base.HighLevel)
	}
	if base.WarningLevel != 0.3 || base.CriticalLevel != 0.8 || base.ExtractionTimeout != "3s" {
		t.Error("merge overwrote unset fields")
	}
}

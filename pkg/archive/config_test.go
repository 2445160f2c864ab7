package archive_test

import (
	"testing"

	"github.com/pixelated-empathy/bias-engine/pkg/archive"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := archive.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "alert-archive" {
		t.Errorf("container_name: got %s, want alert-archive", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "compliance")
	t.Setenv("TEST_CONN", "override-connection")

	env := &archive.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := archive.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "compliance" {
		t.Errorf("container_name: got %s, want compliance", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		cfg      archive.Config
		expected bool
	}{
		{"no connection string", archive.Config{}, false},
		{"with connection string", archive.Config{ConnectionString: "conn"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := archive.Config{
		ContainerName:    "alert-archive",
		ConnectionString: "base-conn",
	}

	overlay := archive.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "alert-archive" {
		t.Errorf("container_name should remain alert-archive, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}

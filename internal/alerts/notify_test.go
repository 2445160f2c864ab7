package alerts_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pixelated-empathy/bias-engine/internal/alerts"
	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

func TestWebhookNotifierDelivers(t *testing.T) {
	var received alerts.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode event: %v", err)
		}
	}))
	defer server.Close()

	cfg := &alerts.Config{WebhookURL: server.URL, NotifyTimeout: "1s", RetryBackoff: "1s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}

	notifier := alerts.NewWebhookNotifier(cfg, slog.Default())
	event := alerts.NewEvent(resultAt(engine.AlertHigh, 0.7))

	if err := notifier.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if received.SessionID != event.SessionID || received.Level != event.Level {
		t.Error("delivered event does not match")
	}
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &alerts.Config{WebhookURL: server.URL, NotifyTimeout: "1s", RetryBackoff: "1s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}

	notifier := alerts.NewWebhookNotifier(cfg, slog.Default())
	if err := notifier.Notify(context.Background(), alerts.NewEvent(resultAt(engine.AlertHigh, 0.7))); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name     string
		cfg      alerts.Config
		expected bool
	}{
		{"no url", alerts.Config{}, false},
		{"with url", alerts.Config{WebhookURL: "https://hooks.example.com/bias"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := alerts.Config{WebhookURL: "not a url"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for invalid webhook url")
	}
}

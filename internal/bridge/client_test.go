package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/bridge"
	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

func bridgeSession() *engine.SessionInput {
	return &engine.SessionInput{
		SessionID: "sess-1",
		Turns: []engine.Turn{
			{Role: "therapist", Text: "How have you been sleeping?"},
			{Role: "client", Text: "Not well."},
		},
	}
}

func newBridge(t *testing.T, endpoint string) *bridge.Client {
	t.Helper()
	cfg := bridge.Config{
		Endpoint:     endpoint,
		Timeout:      "2s",
		RetryBackoff: "5ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}
	return bridge.New(&cfg, slog.Default())
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotRequest struct {
		SessionExcerpt string `json:"session_excerpt"`
		Dimension      string `json:"dimension"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"score":      0.72,
			"confidence": 0.85,
			"evidence":   []string{"dismissive phrasing in turn 1"},
		})
	}))
	defer server.Close()

	analyzer := newBridge(t, server.URL).Dimension(engine.DimensionLinguistic)
	sig, err := analyzer.Analyze(context.Background(), bridgeSession())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if gotRequest.Dimension != "linguistic" {
		t.Errorf("dimension = %q, want linguistic", gotRequest.Dimension)
	}
	if gotRequest.SessionExcerpt != bridgeSession().Excerpt() {
		t.Errorf("excerpt = %q, want %q", gotRequest.SessionExcerpt, bridgeSession().Excerpt())
	}

	if sig.Dimension != engine.DimensionLinguistic {
		t.Errorf("signal dimension = %v, want linguistic", sig.Dimension)
	}
	if sig.Score != 0.72 || sig.Confidence != 0.85 {
		t.Errorf("signal = (%v, %v), want (0.72, 0.85)", sig.Score, sig.Confidence)
	}
	if len(sig.Evidence) != 1 {
		t.Errorf("evidence = %v, want one entry", sig.Evidence)
	}
}

func TestAnalyzeFencedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"score\": 0.4, \"confidence\": 0.6}\n```"))
	}))
	defer server.Close()

	analyzer := newBridge(t, server.URL).Dimension(engine.DimensionLinguistic)
	sig, err := analyzer.Analyze(context.Background(), bridgeSession())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if sig.Score != 0.4 || sig.Confidence != 0.6 {
		t.Errorf("signal = (%v, %v), want (0.4, 0.6)", sig.Score, sig.Confidence)
	}
}

func TestAnalyzeErrorStatus(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	analyzer := newBridge(t, server.URL).Dimension(engine.DimensionLinguistic)
	_, err := analyzer.Analyze(context.Background(), bridgeSession())
	if !errors.Is(err, bridge.ErrBackendUnavailable) {
		t.Errorf("got %v, want ErrBackendUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("error status retried: %d calls", calls.Load())
	}
}

func TestAnalyzeMalformedPayload(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	analyzer := newBridge(t, server.URL).Dimension(engine.DimensionLinguistic)
	_, err := analyzer.Analyze(context.Background(), bridgeSession())
	if !errors.Is(err, bridge.ErrBackendUnavailable) {
		t.Errorf("got %v, want ErrBackendUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("malformed payload retried: %d calls", calls.Load())
	}
}

func TestAnalyzeConnectionRefusedRetries(t *testing.T) {
	// Bind then close so the port is valid but refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	analyzer := newBridge(t, endpoint).Dimension(engine.DimensionLinguistic)

	start := time.Now()
	_, err := analyzer.Analyze(context.Background(), bridgeSession())
	if !errors.Is(err, bridge.ErrBackendUnavailable) {
		t.Fatalf("got %v, want ErrBackendUnavailable", err)
	}
	// One retry means the backoff elapsed at least once.
	if time.Since(start) < 5*time.Millisecond {
		t.Error("connection failure returned before the retry backoff")
	}
}

func TestAnalyzeTimeoutDoesNotRetry(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	cfg := bridge.Config{
		Endpoint:     server.URL,
		Timeout:      "50ms",
		RetryBackoff: "5ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}

	analyzer := bridge.New(&cfg, slog.Default()).Dimension(engine.DimensionLinguistic)
	_, err := analyzer.Analyze(context.Background(), bridgeSession())
	if !errors.Is(err, bridge.ErrBackendUnavailable) {
		t.Fatalf("got %v, want ErrBackendUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("timeout retried: %d calls", calls.Load())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := bridge.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"endpoint", cfg.Endpoint, "http://localhost:5001/analyze"},
		{"timeout", cfg.Timeout, "3s"},
		{"retry_backoff", cfg.RetryBackoff, "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_BRIDGE_ENDPOINT", "http://backend:9000/analyze")
	t.Setenv("TEST_BRIDGE_TIMEOUT", "10s")

	env := &bridge.Env{
		Endpoint: "TEST_BRIDGE_ENDPOINT",
		Timeout:  "TEST_BRIDGE_TIMEOUT",
	}

	cfg := bridge.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Endpoint != "http://backend:9000/analyze" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.TimeoutDuration() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.TimeoutDuration())
	}
}

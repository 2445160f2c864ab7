package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// WebhookNotifier delivers alert events as JSON POSTs to a configured
// endpoint (the notification channel the operations runbooks describe).
type WebhookNotifier struct {
	http   *http.Client
	url    string
	logger *slog.Logger
}

// NewWebhookNotifier creates a notifier for the configured webhook URL.
// The per-attempt timeout comes from the dispatch context, not the client.
func NewWebhookNotifier(cfg *Config, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		http:   &http.Client{},
		url:    cfg.WebhookURL,
		logger: logger.With("sink", "webhook"),
	}
}

// Notify implements NotificationSink.
func (n *WebhookNotifier) Notify(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode alert event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("deliver alert webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert webhook status %d", resp.StatusCode)
	}
	return nil
}

// Package bridge implements the HTTP client for the out-of-process inference
// service that backs heavyweight bias dimensions. Every failure mode
// normalizes to ErrBackendUnavailable so the extractor can degrade the
// affected signal instead of failing the analysis.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/formatting"
)

const maxResponseBytes = 1 << 20

// Client invokes the inference backend over JSON/HTTP.
type Client struct {
	http         *http.Client
	endpoint     string
	retryBackoff time.Duration
	logger       *slog.Logger
}

// New creates a bridge client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:         &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoint:     cfg.Endpoint,
		retryBackoff: cfg.RetryBackoffDuration(),
		logger:       logger.With("system", "bridge"),
	}
}

// Dimension binds the client to one dimension, satisfying
// engine.DimensionAnalyzer for registration in the analyzer set.
func (c *Client) Dimension(dim engine.Dimension) engine.DimensionAnalyzer {
	return &dimensionClient{client: c, dimension: dim}
}

type dimensionClient struct {
	client    *Client
	dimension engine.Dimension
}

func (d *dimensionClient) Analyze(ctx context.Context, session *engine.SessionInput) (engine.BiasSignal, error) {
	return d.client.analyze(ctx, d.dimension, session)
}

type analyzeRequest struct {
	SessionExcerpt string `json:"session_excerpt"`
	Dimension      string `json:"dimension"`
}

type analyzeResponse struct {
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// analyze posts one dimension request. Connection-level failures are retried
// once after a fixed backoff; timeouts and malformed payloads are not, since
// retrying a slow or broken backend under load compounds latency.
func (c *Client) analyze(ctx context.Context, dim engine.Dimension, session *engine.SessionInput) (engine.BiasSignal, error) {
	body, err := json.Marshal(analyzeRequest{
		SessionExcerpt: session.Excerpt(),
		Dimension:      string(dim),
	})
	if err != nil {
		return engine.BiasSignal{}, fmt.Errorf("%w: encode request: %v", ErrBackendUnavailable, err)
	}

	resp, err := c.post(ctx, dim, body)
	if err != nil && retryable(err) {
		c.logger.WarnContext(ctx, "backend connection failed, retrying", "dimension", dim, "error", err)

		select {
		case <-time.After(c.retryBackoff):
		case <-ctx.Done():
			return engine.BiasSignal{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, ctx.Err())
		}

		resp, err = c.post(ctx, dim, body)
	}
	if err != nil {
		return engine.BiasSignal{}, err
	}

	return engine.BiasSignal{
		Dimension:  dim,
		Score:      resp.Score,
		Confidence: resp.Confidence,
		Evidence:   resp.Evidence,
	}, nil
}

func (c *Client) post(ctx context.Context, dim engine.Dimension, body []byte) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d for dimension %s", ErrBackendUnavailable, resp.StatusCode, dim)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrBackendUnavailable, err)
	}

	// Model-backed services occasionally wrap JSON in a markdown fence.
	parsed, err := formatting.Parse[analyzeResponse](string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrBackendUnavailable, err)
	}

	return &parsed, nil
}

// retryable reports whether err is a connection-level failure. Timeouts are
// excluded: the request already consumed its latency budget.
func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/pkg/cache"
)

// AnalysisResult is the fused output of one analysis invocation. Results are
// immutable once produced; re-analysis of the same session supersedes rather
// than mutates. CacheHit is set on results served from the cache and is not
// part of the stored value.
type AnalysisResult struct {
	ID           uuid.UUID    `json:"id"`
	SessionID    string       `json:"session_id"`
	Fingerprint  string       `json:"fingerprint"`
	OverallScore float64      `json:"overall_score"`
	AlertLevel   AlertLevel   `json:"alert_level"`
	Signals      []BiasSignal `json:"signals"`
	Degraded     bool         `json:"degraded"`
	CacheHit     bool         `json:"cache_hit,omitempty"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
}

// AlertDispatcher routes classified results to audit and notification sinks.
// Dispatch must not block on sink failures; degraded delivery is the
// dispatcher's concern, never the analysis caller's.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, result *AnalysisResult)
}

// Engine runs the analysis pipeline: validate, cache lookup, concurrent
// signal extraction, fusion, classification, cache write, dispatch.
type Engine struct {
	analyzers         AnalyzerSet
	thresholds        Thresholds
	extractionTimeout time.Duration
	cache             cache.Cache[AnalysisResult]
	dispatcher        AlertDispatcher
	logger            *slog.Logger
}

// New creates an Engine. The analyzer set must cover every dimension and the
// thresholds must satisfy the ordering invariant; both are validated here so
// analysis calls cannot fail on configuration.
func New(
	analyzers AnalyzerSet,
	thresholds Thresholds,
	extractionTimeout time.Duration,
	store cache.Cache[AnalysisResult],
	dispatcher AlertDispatcher,
	logger *slog.Logger,
) (*Engine, error) {
	if err := analyzers.Validate(); err != nil {
		return nil, err
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("result cache required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("alert dispatcher required")
	}
	if extractionTimeout <= 0 {
		extractionTimeout = 3 * time.Second
	}

	return &Engine{
		analyzers:         analyzers,
		thresholds:        thresholds,
		extractionTimeout: extractionTimeout,
		cache:             store,
		dispatcher:        dispatcher,
		logger:            logger.With("system", "engine"),
	}, nil
}

// Thresholds returns the engine's validated alert thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// CacheStats returns a snapshot of the result cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Analyze runs the full pipeline for one session. A cache hit returns the
// stored result without re-extraction or re-dispatch. Only validation errors
// fail the call; analyzer failures degrade the affected signals and the
// caller still receives a complete result.
func (e *Engine) Analyze(ctx context.Context, session *SessionInput) (*AnalysisResult, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(session, e.thresholds)

	cached, hit, err := e.cache.Get(ctx, fingerprint)
	if err != nil {
		e.logger.WarnContext(ctx, "cache lookup failed", "fingerprint", fingerprint, "error", err)
	}
	if hit {
		result := *cached
		result.CacheHit = true
		return &result, nil
	}

	start := time.Now()
	signals, degraded := e.ExtractSignals(ctx, session)
	overall := Fuse(signals)

	result := &AnalysisResult{
		ID:           uuid.New(),
		SessionID:    session.SessionID,
		Fingerprint:  fingerprint,
		OverallScore: overall,
		AlertLevel:   e.thresholds.Classify(overall),
		Signals:      signals,
		Degraded:     degraded,
		AnalyzedAt:   time.Now().UTC(),
	}

	if err := e.cache.Put(ctx, fingerprint, *result); err != nil {
		e.logger.WarnContext(ctx, "cache store failed", "fingerprint", fingerprint, "error", err)
	}

	e.dispatcher.Dispatch(ctx, result)

	e.logger.InfoContext(
		ctx, "analysis complete",
		"session_id", session.SessionID,
		"overall_score", result.OverallScore,
		"alert_level", result.AlertLevel,
		"degraded", degraded,
		"duration", time.Since(start),
	)

	return result, nil
}

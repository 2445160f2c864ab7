// Package analyses implements the analysis domain: running the bias engine
// against submitted sessions and the persisted result history the dashboard
// queries. It provides types, data access, and HTTP endpoints.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

// Analysis is a stored analysis result. It mirrors the analyses table with
// signals flattened to JSONB. CacheHit is transient response metadata, set
// when the engine served the result from cache rather than recomputing.
type Analysis struct {
	ID           uuid.UUID           `json:"id"`
	SessionID    string              `json:"session_id"`
	Fingerprint  string              `json:"fingerprint"`
	OverallScore float64             `json:"overall_score"`
	AlertLevel   engine.AlertLevel   `json:"alert_level"`
	Signals      []engine.BiasSignal `json:"signals"`
	Degraded     bool                `json:"degraded"`
	CacheHit     bool                `json:"cache_hit,omitempty"`
	AnalyzedAt   time.Time           `json:"analyzed_at"`
	CreatedAt    time.Time           `json:"created_at"`
}

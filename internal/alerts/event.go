// Package alerts implements the alert domain: dispatching classified
// analysis results to audit and notification sinks, and the durable audit
// trail queried by the dashboard API.
package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

// Event is one recorded alert. The (SessionID, AnalyzedAt) pair is the
// dedupe key: re-dispatch of the same analysis cannot double-record, while
// separate analyses of the same session remain distinct events.
type Event struct {
	ID           uuid.UUID           `json:"id"`
	SessionID    string              `json:"session_id"`
	AnalysisID   uuid.UUID           `json:"analysis_id"`
	Level        engine.AlertLevel   `json:"level"`
	OverallScore float64             `json:"overall_score"`
	Signals      []engine.BiasSignal `json:"signals"`
	AnalyzedAt   time.Time           `json:"analyzed_at"`
	RecordedAt   time.Time           `json:"recorded_at"`
}

// NewEvent builds an alert event from an analysis result.
func NewEvent(result *engine.AnalysisResult) *Event {
	return &Event{
		ID:           uuid.New(),
		SessionID:    result.SessionID,
		AnalysisID:   result.ID,
		Level:        result.AlertLevel,
		OverallScore: result.OverallScore,
		Signals:      result.Signals,
		AnalyzedAt:   result.AnalyzedAt,
	}
}

package alerts

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/query"
	"github.com/pixelated-empathy/bias-engine/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "alert_events", "a").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("analysis_id", "AnalysisID").
	Project("level", "Level").
	Project("overall_score", "OverallScore").
	Project("signals", "Signals").
	Project("analyzed_at", "AnalyzedAt").
	Project("recorded_at", "RecordedAt")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for alert event queries.
// Nil fields are ignored.
type Filters struct {
	Level     *string `json:"level,omitempty"`
	SessionID *string `json:"session_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Level", f.Level).
		WhereEquals("SessionID", f.SessionID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("level"); l != "" {
		f.Level = &l
	}
	if s := values.Get("session_id"); s != "" {
		f.SessionID = &s
	}

	return f
}

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	var level string
	var signalsRaw []byte

	err := s.Scan(
		&e.ID,
		&e.SessionID,
		&e.AnalysisID,
		&level,
		&e.OverallScore,
		&signalsRaw,
		&e.AnalyzedAt,
		&e.RecordedAt,
	)
	if err != nil {
		return e, err
	}

	e.Level = engine.AlertLevel(level)

	if len(signalsRaw) > 0 {
		if err := json.Unmarshal(signalsRaw, &e.Signals); err != nil {
			return e, fmt.Errorf("unmarshal signals: %w", err)
		}
	}
	if e.Signals == nil {
		e.Signals = []engine.BiasSignal{}
	}

	return e, nil
}

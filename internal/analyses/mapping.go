package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/query"
	"github.com/pixelated-empathy/bias-engine/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("fingerprint", "Fingerprint").
	Project("overall_score", "OverallScore").
	Project("alert_level", "AlertLevel").
	Project("signals", "Signals").
	Project("degraded", "Degraded").
	Project("analyzed_at", "AnalyzedAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored.
type Filters struct {
	AlertLevel *string  `json:"alert_level,omitempty"`
	SessionID  *string  `json:"session_id,omitempty"`
	MinScore   *float64 `json:"min_score,omitempty"`
	Degraded   *bool    `json:"degraded,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("AlertLevel", f.AlertLevel).
		WhereEquals("SessionID", f.SessionID).
		WhereGte("OverallScore", f.MinScore).
		WhereEquals("Degraded", f.Degraded)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("alert_level"); l != "" {
		f.AlertLevel = &l
	}
	if s := values.Get("session_id"); s != "" {
		f.SessionID = &s
	}
	if m := values.Get("min_score"); m != "" {
		if score, err := strconv.ParseFloat(m, 64); err == nil {
			f.MinScore = &score
		}
	}
	if d := values.Get("degraded"); d != "" {
		if degraded, err := strconv.ParseBool(d); err == nil {
			f.Degraded = &degraded
		}
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var level string
	var signalsRaw []byte

	err := s.Scan(
		&a.ID,
		&a.SessionID,
		&a.Fingerprint,
		&a.OverallScore,
		&level,
		&signalsRaw,
		&a.Degraded,
		&a.AnalyzedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.AlertLevel = engine.AlertLevel(level)

	if len(signalsRaw) > 0 {
		if err := json.Unmarshal(signalsRaw, &a.Signals); err != nil {
			return a, fmt.Errorf("unmarshal signals: %w", err)
		}
	}
	if a.Signals == nil {
		a.Signals = []engine.BiasSignal{}
	}

	return a, nil
}

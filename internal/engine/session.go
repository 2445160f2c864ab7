// Package engine implements the bias analysis pipeline: concurrent signal
// extraction across configured dimensions, confidence-weighted score fusion,
// threshold classification, result caching, and alert dispatch.
package engine

import (
	"strings"
	"time"
)

// Turn is a single conversational exchange within a therapy session.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionContext carries session-level demographic and setting metadata
// supplied by the session provider. All fields are optional.
type SessionContext struct {
	ParticipantAge int    `json:"participant_age,omitempty"`
	Ethnicity      string `json:"ethnicity,omitempty"`
	Gender         string `json:"gender,omitempty"`
	TherapySetting string `json:"therapy_setting,omitempty"`
}

// SessionInput is the unit of analysis. Turns are treated as immutable once
// submitted; the engine never modifies them.
type SessionInput struct {
	SessionID string         `json:"session_id"`
	Turns     []Turn         `json:"turns"`
	Context   SessionContext `json:"context"`
}

// Validate checks the structural invariants of a session before analysis.
func (s *SessionInput) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrMissingSessionID
	}
	if len(s.Turns) == 0 {
		return ErrEmptySession
	}
	for _, turn := range s.Turns {
		if strings.TrimSpace(turn.Text) == "" {
			return ErrBlankTurn
		}
	}
	return nil
}

// Excerpt returns the session transcript as role-prefixed lines, the form
// submitted to the inference backend.
func (s *SessionInput) Excerpt() string {
	var b strings.Builder
	for i, turn := range s.Turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	return b.String()
}

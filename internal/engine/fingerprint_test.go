package engine_test

import (
	"testing"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

func fingerprintSession() *engine.SessionInput {
	return &engine.SessionInput{
		SessionID: "sess-1",
		Turns: []engine.Turn{
			{Role: "therapist", Text: "How are you?", Timestamp: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)},
			{Role: "client", Text: "Fine.", Timestamp: time.Date(2026, 1, 10, 9, 1, 0, 0, time.UTC)},
		},
		Context: engine.SessionContext{ParticipantAge: 34, Gender: "female"},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := engine.Fingerprint(fingerprintSession(), testThresholds)
	b := engine.Fingerprint(fingerprintSession(), testThresholds)

	if a != b {
		t.Errorf("fingerprints differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a))
	}
}

func TestFingerprintIgnoresTimestamps(t *testing.T) {
	shifted := fingerprintSession()
	for i := range shifted.Turns {
		shifted.Turns[i].Timestamp = shifted.Turns[i].Timestamp.Add(time.Hour)
	}

	if engine.Fingerprint(fingerprintSession(), testThresholds) != engine.Fingerprint(shifted, testThresholds) {
		t.Error("timestamp change altered the fingerprint")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := engine.Fingerprint(fingerprintSession(), testThresholds)

	tests := []struct {
		name   string
		mutate func(*engine.SessionInput) engine.Thresholds
	}{
		{
			name: "turn text",
			mutate: func(s *engine.SessionInput) engine.Thresholds {
				s.Turns[1].Text = "Not fine."
				return testThresholds
			},
		},
		{
			name: "turn role",
			mutate: func(s *engine.SessionInput) engine.Thresholds {
				s.Turns[1].Role = "observer"
				return testThresholds
			},
		},
		{
			name: "context",
			mutate: func(s *engine.SessionInput) engine.Thresholds {
				s.Context.Ethnicity = "hispanic"
				return testThresholds
			},
		},
		{
			name: "thresholds",
			mutate: func(s *engine.SessionInput) engine.Thresholds {
				return engine.Thresholds{Warning: 0.2, High: 0.5, Critical: 0.9}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := fingerprintSession()
			thresholds := tt.mutate(session)
			if engine.Fingerprint(session, thresholds) == base {
				t.Error("mutation did not change the fingerprint")
			}
		})
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	a := &engine.SessionInput{
		SessionID: "s",
		Turns:     []engine.Turn{{Role: "ab", Text: "c"}},
	}
	b := &engine.SessionInput{
		SessionID: "s",
		Turns:     []engine.Turn{{Role: "a", Text: "bc"}},
	}

	if engine.Fingerprint(a, testThresholds) == engine.Fingerprint(b, testThresholds) {
		t.Error("adjacent fields collided")
	}
}

package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Fingerprint computes the cache key for a session analyzed under the given
// thresholds: a SHA-256 digest over turn roles and texts, session context,
// and the threshold boundaries. Timestamps are excluded so that re-submitted
// identical content hits the same entry. Field values are length-prefixed to
// keep adjacent fields from colliding.
func Fingerprint(session *SessionInput, thresholds Thresholds) string {
	h := sha256.New()

	writeField(h, session.SessionID)
	for _, turn := range session.Turns {
		writeField(h, turn.Role)
		writeField(h, turn.Text)
	}

	fmt.Fprintf(h, "%d|", session.Context.ParticipantAge)
	writeField(h, session.Context.Ethnicity)
	writeField(h, session.Context.Gender)
	writeField(h, session.Context.TherapySetting)

	fmt.Fprintf(h, "%.6f|%.6f|%.6f", thresholds.Warning, thresholds.High, thresholds.Critical)

	return hex.EncodeToString(h.Sum(nil))
}

func writeField(w io.Writer, value string) {
	fmt.Fprintf(w, "%d:%s|", len(value), value)
}

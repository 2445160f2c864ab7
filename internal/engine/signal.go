package engine

import (
	"context"
	"fmt"
	"math"
)

// Dimension identifies one independent axis of bias assessment.
type Dimension string

const (
	DimensionLinguistic          Dimension = "linguistic"
	DimensionDemographicFairness Dimension = "demographic-fairness"
	DimensionCulturalSensitivity Dimension = "cultural-sensitivity"
)

// Dimensions returns every dimension the engine evaluates, in fusion order.
// The slice is fresh on each call so callers cannot mutate the canonical set.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionLinguistic,
		DimensionDemographicFairness,
		DimensionCulturalSensitivity,
	}
}

// BiasSignal is one dimension's independent assessment of a session.
// Score and Confidence are always within [0,1]. Degraded marks signals
// synthesized after an analyzer failure rather than computed.
type BiasSignal struct {
	Dimension  Dimension `json:"dimension"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Evidence   []string  `json:"evidence,omitempty"`
	Degraded   bool      `json:"degraded,omitempty"`
}

// DimensionAnalyzer computes a single dimension's bias signal for a session.
// Implementations may be in-process (lexicon scoring) or remote (inference
// backend); either way a returned error is recovered by the extractor, never
// surfaced to the analysis caller.
type DimensionAnalyzer interface {
	Analyze(ctx context.Context, session *SessionInput) (BiasSignal, error)
}

// AnalyzerSet maps each dimension to its analyzer. The set must be total:
// fusion depends on fixed-arity input, so a missing dimension is a
// configuration error caught at engine construction.
type AnalyzerSet map[Dimension]DimensionAnalyzer

// Validate confirms every dimension has a registered analyzer.
func (s AnalyzerSet) Validate() error {
	for _, dim := range Dimensions() {
		if _, ok := s[dim]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingAnalyzer, dim)
		}
	}
	return nil
}

// degradedSignal synthesizes the zero-confidence placeholder used when a
// dimension's analyzer is unavailable, preserving fixed-arity fusion input.
func degradedSignal(dim Dimension) BiasSignal {
	return BiasSignal{
		Dimension:  dim,
		Score:      0,
		Confidence: 0,
		Degraded:   true,
	}
}

// clamp bounds v to [0,1]. Backend drift can produce out-of-range or NaN
// values; they are clamped rather than rejected to keep the pipeline
// available.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

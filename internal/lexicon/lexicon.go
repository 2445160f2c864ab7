// Package lexicon implements in-process dimension analyzers that score
// session transcripts against curated term buckets. These cover the cheaper
// dimensions that do not warrant a round trip to the inference backend.
package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

// saturation controls how quickly accumulated match weight approaches a
// score of 1: score = weight / (weight + saturation).
const saturation = 1.0

type bucket struct {
	label  string
	weight float64
	terms  []string
}

// Analyzer scores one dimension by matching turn text against term buckets.
// Matching is case-insensitive substring containment, the same discipline for
// every invocation, so identical sessions always produce identical signals.
type Analyzer struct {
	dimension engine.Dimension
	buckets   []bucket
}

// Analyze implements engine.DimensionAnalyzer.
func (a *Analyzer) Analyze(ctx context.Context, session *engine.SessionInput) (engine.BiasSignal, error) {
	if err := ctx.Err(); err != nil {
		return engine.BiasSignal{}, err
	}

	var weight float64
	var evidence []string
	var words int

	for i, turn := range session.Turns {
		text := strings.ToLower(turn.Text)
		words += len(strings.Fields(text))

		for _, b := range a.buckets {
			for _, term := range b.terms {
				if strings.Contains(text, term) {
					weight += b.weight
					evidence = append(evidence, fmt.Sprintf("%s: %q (turn %d)", b.label, term, i+1))
				}
			}
		}
	}

	return engine.BiasSignal{
		Dimension:  a.dimension,
		Score:      weight / (weight + saturation),
		Confidence: confidence(words),
		Evidence:   evidence,
	}, nil
}

// confidence grows with the volume of analyzed text: lexicon matching over a
// few words says little either way.
func confidence(words int) float64 {
	base := 0.55
	bonus := float64(words) / 400
	if bonus > 0.35 {
		bonus = 0.35
	}
	return base + bonus
}

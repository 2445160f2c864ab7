package lexicon

import "github.com/pixelated-empathy/bias-engine/internal/engine"

// NewDemographicFairness creates the analyzer for age- and gender-based
// stereotyping in therapist language.
func NewDemographicFairness() *Analyzer {
	return &Analyzer{
		dimension: engine.DimensionDemographicFairness,
		buckets: []bucket{
			{
				label:  "gender stereotype",
				weight: 2.0,
				terms: []string{
					"typical woman", "typical man", "women are always", "men are always",
					"women can't", "men can't", "man up", "boys don't cry",
					"hysterical", "girls like you", "boys like you", "emotional for a man",
				},
			},
			{
				label:  "age stereotype",
				weight: 2.0,
				terms: []string{
					"too old to", "too young to understand", "at your age you should",
					"people your age", "act your age", "senior moment",
				},
			},
			{
				label:  "generalizing language",
				weight: 1.0,
				terms: []string{
					"all women", "all men", "every woman", "every man",
					"for your age", "your generation",
				},
			},
		},
	}
}

// NewCulturalSensitivity creates the analyzer for othering and cultural
// stereotyping in therapist language.
func NewCulturalSensitivity() *Analyzer {
	return &Analyzer{
		dimension: engine.DimensionCulturalSensitivity,
		buckets: []bucket{
			{
				label:  "othering",
				weight: 2.0,
				terms: []string{
					"you people", "your kind", "those people", "where are you really from",
					"back in your country", "speak english", "real american",
				},
			},
			{
				label:  "cultural stereotype",
				weight: 2.0,
				terms: []string{
					"so articulate for", "exotic", "your culture is so",
					"all of them are", "that's so ghetto",
				},
			},
			{
				label:  "normativity",
				weight: 1.0,
				terms: []string{
					"normal families", "normal people do", "like normal americans",
					"your community always",
				},
			},
		},
	}
}

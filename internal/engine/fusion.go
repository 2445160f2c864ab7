package engine

// Fuse reduces a signal set to one overall bias score using a
// confidence-weighted mean: sum(score*confidence) / sum(confidence).
// When every confidence is zero there is no evidence to weigh, so the
// overall score is defined as 0 rather than an error.
func Fuse(signals []BiasSignal) float64 {
	var weighted, total float64
	for _, sig := range signals {
		conf := clamp(sig.Confidence)
		weighted += clamp(sig.Score) * conf
		total += conf
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

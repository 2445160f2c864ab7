package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExtractSignals fans out one goroutine per dimension, each bounded by the
// extraction timeout, and joins before returning. A dimension whose analyzer
// fails or times out degrades to a zero-confidence placeholder instead of
// failing the extraction, so the result always has one signal per dimension
// in canonical order. The second return reports whether any degradation
// occurred.
func (e *Engine) ExtractSignals(ctx context.Context, session *SessionInput) ([]BiasSignal, bool) {
	dims := Dimensions()
	signals := make([]BiasSignal, len(dims))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dims {
		g.Go(func() error {
			signals[i] = e.extractDimension(gctx, dim, session)
			return nil
		})
	}

	// Workers never return errors; degradation is recorded per slot.
	g.Wait()

	degraded := false
	for _, sig := range signals {
		if sig.Degraded {
			degraded = true
			break
		}
	}
	return signals, degraded
}

func (e *Engine) extractDimension(ctx context.Context, dim Dimension, session *SessionInput) BiasSignal {
	dimCtx, cancel := context.WithTimeout(ctx, e.extractionTimeout)
	defer cancel()

	start := time.Now()
	sig, err := e.analyzers[dim].Analyze(dimCtx, session)
	if err != nil {
		e.logger.WarnContext(
			ctx, "dimension degraded",
			"dimension", dim,
			"error", err,
			"duration", time.Since(start),
		)
		return degradedSignal(dim)
	}

	sig.Dimension = dim
	sig.Score = clamp(sig.Score)
	sig.Confidence = clamp(sig.Confidence)
	return sig
}

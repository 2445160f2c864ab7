package bridge

import "errors"

// ErrBackendUnavailable is the single condition every bridge failure mode
// (connection, timeout, error status, malformed payload) normalizes to.
// The extractor converts it into a zero-confidence signal; it never reaches
// the analysis caller.
var ErrBackendUnavailable = errors.New("inference backend unavailable")

package engine

import (
	"errors"
	"net/http"
)

// Validation and configuration errors. Only validation errors may fail an
// Analyze call; configuration errors surface at engine construction.
var (
	ErrMissingSessionID  = errors.New("session id is required")
	ErrEmptySession      = errors.New("session must contain at least one turn")
	ErrBlankTurn         = errors.New("session turns must not be blank")
	ErrInvalidThresholds = errors.New("invalid alert thresholds")
	ErrMissingAnalyzer   = errors.New("no analyzer registered for dimension")
)

// MapHTTPStatus maps engine errors to HTTP status codes for API handlers.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingSessionID),
		errors.Is(err, ErrEmptySession),
		errors.Is(err, ErrBlankTurn):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

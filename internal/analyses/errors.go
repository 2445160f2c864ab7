package analyses

import (
	"errors"
	"net/http"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
)

// Domain errors for analysis operations.
var (
	ErrNotFound  = errors.New("analysis not found")
	ErrDuplicate = errors.New("analysis already exists")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
// Engine validation errors map through to 400 so rejected sessions carry a
// clear client-side status.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if status := engine.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}

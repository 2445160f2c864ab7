package alerts

import (
	"errors"
	"net/http"
)

// Domain errors for alert audit operations.
var (
	ErrNotFound  = errors.New("alert event not found")
	ErrDuplicate = errors.New("alert event already recorded")
)

// MapHTTPStatus maps alert domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

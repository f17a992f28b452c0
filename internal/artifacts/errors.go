package artifacts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("artifact not found")
	ErrDuplicate    = errors.New("artifact already exists")
	ErrInvalidInput = errors.New("invalid artifact")
)

// MapHTTPStatus maps artifact domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

package workflows

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("workflow not found")
	ErrDuplicate       = errors.New("workflow already exists")
	ErrInvalidInput    = errors.New("invalid workflow")
	ErrProjectNotFound = errors.New("project not found")
)

// MapHTTPStatus maps workflow domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProjectNotFound) {
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

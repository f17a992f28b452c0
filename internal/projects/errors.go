package projects

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrDuplicate    = errors.New("project already exists")
	ErrInvalidInput = errors.New("invalid project")
)

// MapHTTPStatus maps project domain errors to HTTP status codes.
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

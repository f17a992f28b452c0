package templates

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("template not found")
	ErrDuplicate    = errors.New("template version already exists for this workspace, name, and kind")
	ErrInvalidInput = errors.New("invalid template")
)

// MapHTTPStatus maps template domain errors to HTTP status codes.
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

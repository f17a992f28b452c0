package workspaces

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound    = errors.New("workspace not found")
	ErrDuplicate   = errors.New("workspace already exists")
	ErrInvalidSlug = errors.New("invalid workspace slug")
	ErrMissing     = errors.New("request has no workspace")
)

// MapHTTPStatus maps workspace domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidSlug) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrMissing) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

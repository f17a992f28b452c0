package credentials

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("provider credential not found")
	ErrDuplicate       = errors.New("provider credential already exists")
	ErrUnknownProvider = errors.New("unknown text provider")
	ErrInvalidInput    = errors.New("invalid provider credential")
)

// MapHTTPStatus maps credential domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownProvider) {
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

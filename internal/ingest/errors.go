package ingest

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidURL     = errors.New("invalid YouTube URL")
	ErrMissingURL     = errors.New("missing 'url' in ingest job payload")
	ErrMissingProject = errors.New("ingest job has no project")
)

// InputError marks invalid job input. Its Kind names it in job error strings.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Kind() string  { return "ValueError" }
func (e *InputError) Unwrap() error { return e.Err }

// MapHTTPStatus maps ingest errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrMissingURL) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

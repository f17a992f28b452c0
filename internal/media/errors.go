package media

import (
	"errors"
	"net/http"
)

var (
	ErrMissingProject  = errors.New("missing project_id for media job")
	ErrMissingPrompt   = errors.New("prompt is required")
	ErrProjectNotFound = errors.New("project not found")
	ErrImageTooLarge   = errors.New("generated image exceeds the maximum image size")
	ErrEmptyImage      = errors.New("image provider returned neither url nor payload")
	ErrNotImage        = errors.New("artifact is not a stored image")
)

// InputError marks invalid job input. Its Kind names it in job error strings.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Kind() string  { return "ValueError" }
func (e *InputError) Unwrap() error { return e.Err }

// MapHTTPStatus maps media errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrNotImage):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingProject), errors.Is(err, ErrMissingPrompt):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

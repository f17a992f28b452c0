package jobs

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("job not found")
	ErrDuplicate    = errors.New("job already exists")
	ErrInvalidInput = errors.New("invalid job input")
	// ErrNotQueued indicates a job could not start because it already left the queued state.
	ErrNotQueued = errors.New("job is not queued")
)

// Kinded is implemented by errors that carry a stable taxonomy name.
type Kinded interface {
	Kind() string
}

// Describe formats err as "{Kind}: {message}" for the job error column.
// Errors without a Kind method are reported as "Error".
func Describe(err error) string {
	kind := "Error"
	var k Kinded
	if errors.As(err, &k) {
		kind = k.Kind()
	}
	return kind + ": " + err.Error()
}

// MapHTTPStatus maps job domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotQueued) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

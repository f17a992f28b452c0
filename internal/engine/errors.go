package engine

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/trendr/internal/jobs"
)

// kindError is a sentinel that names its own failure kind.
type kindError struct {
	kind string
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Kind() string  { return e.kind }

// Sentinel errors for workflow validation and execution. Each reports its
// taxonomy name through Kind.
var (
	ErrInvalidDefinition error = &kindError{"InvalidDefinition", "invalid workflow definition"}
	ErrDuplicateNode     error = &kindError{"DuplicateNode", "duplicate workflow node"}
	ErrUnsupportedTask   error = &kindError{"UnsupportedTask", "unsupported workflow task"}
	ErrInvalidEdge       error = &kindError{"InvalidEdge", "invalid workflow edge"}
	ErrCycleDetected     error = &kindError{"CycleDetected", "Workflow contains a dependency cycle"}
	ErrNotFound          error = &kindError{"NotFound", "Workflow not found"}
	ErrHandlerFailure    error = &kindError{"HandlerFailure", "workflow node failed"}
)

// ValidationError describes why a definition was rejected. Err is one of the
// validation sentinels; NodeID names the offending node when there is one.
type ValidationError struct {
	Err    error
	NodeID string
	Msg    string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

// Kind returns the taxonomy name of the underlying sentinel.
func (e *ValidationError) Kind() string {
	var k *kindError
	if errors.As(e.Err, &k) {
		return k.kind
	}
	return "InvalidDefinition"
}

func invalid(sentinel error, nodeID, format string, args ...any) error {
	return &ValidationError{Err: sentinel, NodeID: nodeID, Msg: fmt.Sprintf(format, args...)}
}

// HandlerError wraps the failure of a node handler. Its message carries the
// kind and message of the underlying error.
type HandlerError struct {
	NodeID string
	Task   string
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("node '%s' (%s) failed: %s", e.NodeID, e.Task, jobs.Describe(e.Err))
}

func (e *HandlerError) Kind() string { return "HandlerFailure" }

func (e *HandlerError) Unwrap() []error {
	return []error{ErrHandlerFailure, e.Err}
}

// MapHTTPStatus maps engine errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidDefinition),
		errors.Is(err, ErrDuplicateNode),
		errors.Is(err, ErrUnsupportedTask),
		errors.Is(err, ErrInvalidEdge),
		errors.Is(err, ErrCycleDetected):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

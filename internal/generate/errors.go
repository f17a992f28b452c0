package generate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/trendr/internal/artifacts"
)

var (
	ErrUnknownKind      = errors.New("unknown output kind")
	ErrRender           = errors.New("template render failed")
	ErrMissingProject   = errors.New("missing project_id for generation job")
	ErrTemplateMismatch = errors.New("template kind does not match output")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTemplateNotFound = errors.New("template not found")
)

// InputError marks invalid job input. Its Kind names it in job error strings.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Kind() string  { return "ValueError" }
func (e *InputError) Unwrap() error { return e.Err }

// MapHTTPStatus maps generation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownKind), errors.Is(err, ErrTemplateMismatch), errors.Is(err, ErrMissingProject):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func unknownKind(k artifacts.Kind) error {
	return fmt.Errorf("%w '%s'. Supported kinds: blog, linkedin, tweet", ErrUnknownKind, k)
}

// MismatchError reports a template used for an output of another kind.
type MismatchError struct {
	TemplateKind string
	Output       artifacts.Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Template kind '%s' does not match output '%s'", e.TemplateKind, e.Output)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrTemplateMismatch
}

func mismatch(templateKind string, output artifacts.Kind) error {
	return &MismatchError{TemplateKind: templateKind, Output: output}
}

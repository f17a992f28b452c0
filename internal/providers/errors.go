package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrAllProvidersFailed = errors.New("all providers failed")
	ErrNotConfigured      = errors.New("provider is not configured")
	ErrEmptyResponse      = errors.New("provider returned no content")
)

// AllProvidersFailedError reports router exhaustion. Attempts holds one
// "{name}: {reason}" entry per candidate in chain order.
type AllProvidersFailedError struct {
	Category Category
	Attempts []string
}

func (e *AllProvidersFailedError) Error() string {
	detail := "no providers configured"
	if len(e.Attempts) > 0 {
		detail = strings.Join(e.Attempts, "; ")
	}
	return fmt.Sprintf("all %s providers failed: %s", e.Category, detail)
}

func (e *AllProvidersFailedError) Kind() string {
	return "AllProvidersFailed"
}

func (e *AllProvidersFailedError) Unwrap() error {
	return ErrAllProvidersFailed
}

// CallError is a failed provider call, tagged with the kind of failure.
type CallError struct {
	Provider string
	Type     string
	Err      error
}

func (e *CallError) Error() string {
	return e.Err.Error()
}

func (e *CallError) Kind() string {
	return e.Type
}

func (e *CallError) Unwrap() error {
	return e.Err
}

type kinded interface {
	Kind() string
}

func errorKind(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return "Error"
}

// MapHTTPStatus maps provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownProvider) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAllProvidersFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

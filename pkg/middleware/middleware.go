// Package middleware holds the HTTP middleware mounted on the API module and
// the ordered stack that composes them.
package middleware

import "net/http"

// Func wraps a handler with cross-cutting behavior.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first Func added is outermost.
type System interface {
	Use(mws ...Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mws ...Func) {
	for _, mw := range mws {
		if mw != nil {
			*s = append(*s, mw)
		}
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}

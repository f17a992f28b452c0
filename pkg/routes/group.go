package routes

import (
	"net/http"
	"slices"
)

// Group organizes routes under a common prefix. Middleware wraps every route
// in the group and its children.
type Group struct {
	Prefix     string
	Routes     []Route
	Children   []Group
	Middleware []func(http.Handler) http.Handler
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group, inherited ...func(http.Handler) http.Handler) {
	fullPrefix := parentPrefix + group.Prefix
	stack := append(slices.Clone(inherited), group.Middleware...)
	for _, route := range group.Routes {
		mux.Handle(route.pattern(fullPrefix), wrap(route.Handler, append(slices.Clone(stack), route.Middleware...)))
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child, stack...)
	}
}

func wrap(handler http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}
	return handler
}

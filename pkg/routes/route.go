package routes

import "net/http"

// Route binds an HTTP method and a pattern, relative to its group prefix, to a
// handler. Middleware wraps this route alone, inside any group middleware.
type Route struct {
	Method     string
	Pattern    string
	Handler    http.HandlerFunc
	Middleware []func(http.Handler) http.Handler
}

func (r Route) pattern(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}

// Patterns lists the ServeMux patterns Register would install for groups, in
// registration order.
func Patterns(groups ...Group) []string {
	var out []string
	var walk func(prefix string, g Group)
	walk = func(prefix string, g Group) {
		full := prefix + g.Prefix
		for _, r := range g.Routes {
			out = append(out, r.pattern(full))
		}
		for _, child := range g.Children {
			walk(full, child)
		}
	}
	for _, g := range groups {
		walk("", g)
	}
	return out
}

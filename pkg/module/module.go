// Package module mounts prefixed sub-routers, each with its own middleware
// stack, under a top-level Router.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/trendr/pkg/middleware"
)

// Module serves every request under its prefix through its middleware stack
// and inner router, with the prefix removed from the request path.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped in the middleware stack. The chain
// is composed on first use; middleware added afterwards is ignored.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve dispatches req to the module with its prefix stripped.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, m.strip(req))
}

// Use appends middleware to the module's stack. Call before the first Serve.
func (m *Module) Use(mws ...middleware.Func) {
	m.middleware.Use(mws...)
}

func (m *Module) strip(req *http.Request) *http.Request {
	u := new(url.URL)
	*u = *req.URL
	u.Path = trimPrefix(req.URL.Path, m.prefix)
	if req.URL.RawPath != "" {
		u.RawPath = trimPrefix(req.URL.RawPath, m.prefix)
	}

	out := req.WithContext(req.Context())
	out.URL = u
	return out
}

func trimPrefix(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}

package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/trendr/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func tag(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/jobs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/jobs", http.StatusOK},
		{"GET", "/jobs/123", http.StatusOK},
		{"POST", "/jobs", http.StatusMethodNotAllowed},
		{"GET", "/projects", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGroupMiddleware(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Middleware: []func(http.Handler) http.Handler{tag("workspace")},
		Children: []routes.Group{
			{
				Prefix:     "/workflows",
				Middleware: []func(http.Handler) http.Handler{tag("workflows")},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{id}/run", Handler: ok, Middleware: []func(http.Handler) http.Handler{tag("run")}},
					{Method: "GET", Pattern: "/{id}", Handler: ok},
				},
			},
			{
				Prefix: "/templates",
				Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
			},
		},
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"POST", "/workflows/abc/run", "workspace,workflows,run"},
		{"GET", "/workflows/abc", "workspace,workflows"},
		{"GET", "/templates", "workspace"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if got := strings.Join(rec.Header().Values("X-Trace"), ","); got != tt.want {
				t.Errorf("middleware order: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/projects",
				Routes: []routes.Route{
					{Method: "GET", Pattern: ""},
					{Method: "POST", Pattern: ""},
				},
				Children: []routes.Group{
					{Prefix: "/{id}/artifacts", Routes: []routes.Route{{Method: "GET", Pattern: ""}}},
				},
			},
		},
	})

	want := []string{"GET /projects", "POST /projects", "GET /projects/{id}/artifacts"}
	if !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}

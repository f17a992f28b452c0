package workspaces_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/workspaces"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"":              workspaces.DefaultSlug,
		"   ":           workspaces.DefaultSlug,
		"Acme":          "acme",
		" Acme  Media ": "acme-media",
		"team-42":       "team-42",
	}
	for in, want := range tests {
		if got := workspaces.NormalizeSlug(in); got != want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	sys := workspaces.New(db, discard())
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO workspaces.+ON CONFLICT \(slug\)`).
		WithArgs(sqlmock.AnyArg(), "acme-media", "acme-media").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
			AddRow(id.String(), "acme-media", "acme-media", time.Now()))

	ws, err := sys.Resolve(context.Background(), "Acme Media")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ws.ID != id || ws.Slug != "acme-media" {
		t.Errorf("workspace = %+v", ws)
	}

	for _, slug := range []string{strings.Repeat("a", 65), "a/b", "what?"} {
		if _, err := sys.Resolve(context.Background(), slug); !errors.Is(err, workspaces.ErrInvalidSlug) {
			t.Errorf("Resolve(%q) error = %v, want invalid slug", slug, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

type staticSystem struct {
	slugs []string
}

func (s *staticSystem) Resolve(_ context.Context, slug string) (*workspaces.Workspace, error) {
	slug = workspaces.NormalizeSlug(slug)
	if strings.Contains(slug, "/") {
		return nil, workspaces.ErrInvalidSlug
	}
	s.slugs = append(s.slugs, slug)
	return &workspaces.Workspace{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(slug)), Slug: slug}, nil
}

func (s *staticSystem) Find(context.Context, uuid.UUID) (*workspaces.Workspace, error) {
	return nil, workspaces.ErrNotFound
}

func TestMiddleware(t *testing.T) {
	sys := &staticSystem{}
	var seen *workspaces.Workspace

	h := workspaces.Middleware(sys, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = workspaces.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("default workspace", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))
		if rec.Code != http.StatusNoContent || seen == nil || seen.Slug != workspaces.DefaultSlug {
			t.Errorf("status = %d, workspace = %+v", rec.Code, seen)
		}
	})

	t.Run("header workspace", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/projects", nil)
		req.Header.Set(workspaces.HeaderWorkspace, "Acme")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		id, err := workspaces.ID(req.Context())
		if !errors.Is(err, workspaces.ErrMissing) || id != uuid.Nil {
			t.Error("outer request context was modified")
		}
		if seen.Slug != "acme" {
			t.Errorf("slug = %q", seen.Slug)
		}
	})

	t.Run("invalid slug", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest("GET", "/projects", nil)
		req.Header.Set(workspaces.HeaderWorkspace, "a/b")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest || seen != nil {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

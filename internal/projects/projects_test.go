package projects_test

import (
	"context"
	"encoding/json"
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

	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/pagination"
)

var pageConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func newRepo(t *testing.T) (projects.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return projects.New(db, slog.New(slog.NewTextHandler(io.Discard, nil)), pageConfig), mock
}

func setupMux(h *projects.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func TestRepositoryList(t *testing.T) {
	sys, mock := newRepo(t)
	ws := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM public.projects p WHERE`).
		WithArgs(ws).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM public.projects p WHERE .+ ORDER BY .+ LIMIT 2 OFFSET 2`).
		WithArgs(ws).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "source_type", "source_ref", "created_at"}).
			AddRow(uuid.NewString(), ws.String(), "third", "youtube", "https://youtu.be/x", now))

	result, err := sys.List(context.Background(), ws, pagination.PageRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if result.Total != 3 || result.TotalPages != 2 || len(result.Data) != 1 {
		t.Errorf("result = %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepositoryCreate(t *testing.T) {
	t.Run("defaults source type", func(t *testing.T) {
		sys, mock := newRepo(t)
		ws := uuid.New()

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), ws, "Demo", "youtube", "https://youtu.be/x").
			WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "source_type", "source_ref", "created_at"}).
				AddRow(uuid.NewString(), ws.String(), "Demo", "youtube", "https://youtu.be/x", time.Now()))

		p, err := sys.Create(context.Background(), projects.CreateCommand{
			WorkspaceID: ws,
			Name:        " Demo ",
			SourceRef:   "https://youtu.be/x",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if p.SourceType != projects.SourceYouTube {
			t.Errorf("source type = %q", p.SourceType)
		}
	})

	t.Run("requires name and source", func(t *testing.T) {
		sys, _ := newRepo(t)
		_, err := sys.Create(context.Background(), projects.CreateCommand{Name: "only name"})
		if !errors.Is(err, projects.ErrInvalidInput) {
			t.Errorf("error = %v, want invalid input", err)
		}
		if projects.MapHTTPStatus(err) != http.StatusBadRequest {
			t.Errorf("status = %d", projects.MapHTTPStatus(err))
		}
	})
}

func TestHandler(t *testing.T) {
	sys, mock := newRepo(t)
	mux := setupMux(sys.Handler())
	ws := &workspaces.Workspace{ID: uuid.New(), Slug: "default"}

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = req.WithContext(workspaces.WithWorkspace(req.Context(), ws))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), ws.ID, "Demo", "youtube", "https://youtu.be/x").
			WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "source_type", "source_ref", "created_at"}).
				AddRow(uuid.NewString(), ws.ID.String(), "Demo", "youtube", "https://youtu.be/x", time.Now()))

		rec := do("POST", "/projects", `{"name":"Demo","source_ref":"https://youtu.be/x"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var p projects.Project
		if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.WorkspaceID != ws.ID || p.Name != "Demo" {
			t.Errorf("project = %+v", p)
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		if rec := do("POST", "/projects", `{"name":""}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("find invalid id", func(t *testing.T) {
		if rec := do("GET", "/projects/nope", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

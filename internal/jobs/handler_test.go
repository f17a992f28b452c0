package jobs_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/pagination"
)

type mockSystem struct {
	listFn func(ctx context.Context, workspaceID uuid.UUID, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error)
	findFn func(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error)
}

func (m *mockSystem) Handler() *jobs.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, workspaceID uuid.UUID, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
	return m.listFn(ctx, workspaceID, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error) {
	return m.findFn(ctx, workspaceID, id)
}

func (m *mockSystem) Create(context.Context, jobs.CreateCommand) (*jobs.Job, error) {
	panic("not used")
}

func (m *mockSystem) Transition(context.Context, uuid.UUID, uuid.UUID, jobs.TransitionCommand) (*jobs.Job, error) {
	panic("not used")
}

func (m *mockSystem) SetTaskID(context.Context, uuid.UUID, uuid.UUID, string) (*jobs.Job, error) {
	panic("not used")
}

func newTestHandler(sys jobs.System) *jobs.Handler {
	return jobs.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *jobs.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func request(ws *workspaces.Workspace, method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(workspaces.WithWorkspace(req.Context(), ws))
}

func TestHandlerList(t *testing.T) {
	ws := &workspaces.Workspace{ID: uuid.New(), Slug: "default"}
	var captured jobs.Filters
	var capturedWS uuid.UUID

	sys := &mockSystem{
		listFn: func(_ context.Context, workspaceID uuid.UUID, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
			capturedWS = workspaceID
			captured = filters
			result := pagination.NewPageResult([]jobs.Job{{ID: uuid.New(), Kind: jobs.KindIngest}}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(ws, "GET", "/jobs?kind=ingest&status=queued"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[jobs.Job]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || result.PageSize != 20 {
		t.Errorf("result = %+v", result)
	}
	if capturedWS != ws.ID {
		t.Errorf("workspace = %v, want %v", capturedWS, ws.ID)
	}
	if captured.Kind == nil || *captured.Kind != "ingest" || captured.Status == nil || *captured.Status != "queued" {
		t.Errorf("filters = %+v", captured)
	}
}

func TestHandlerFind(t *testing.T) {
	ws := &workspaces.Workspace{ID: uuid.New(), Slug: "default"}
	known := uuid.New()

	sys := &mockSystem{
		findFn: func(_ context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error) {
			if id != known || workspaceID != ws.ID {
				return nil, jobs.ErrNotFound
			}
			return &jobs.Job{ID: id, WorkspaceID: workspaceID, Status: jobs.StatusRunning}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"found", "/jobs/" + known.String(), http.StatusOK},
		{"missing", "/jobs/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/jobs/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, request(ws, "GET", tt.target))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	t.Run("requires workspace", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/jobs/"+known.String(), nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

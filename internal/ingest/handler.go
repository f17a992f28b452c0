package ingest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// DefaultProjectName names projects created without an explicit name.
const DefaultProjectName = "YouTube Import"

// YouTubeRequest is the body of POST /ingest/youtube.
type YouTubeRequest struct {
	URL         string `json:"url"`
	ProjectName string `json:"project_name,omitempty"`
}

// Handler provides the HTTP endpoint that starts an ingest job.
type Handler struct {
	projects   projects.Store
	dispatcher tasks.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(projectStore projects.Store, dispatcher tasks.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		projects:   projectStore,
		dispatcher: dispatcher,
		logger:     logger.With("handler", "ingest"),
	}
}

// Routes returns the route group definition for ingest endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ingest",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/youtube", Handler: h.YouTube},
		},
	}
}

// YouTube creates a project for the URL and queues its ingest job.
func (h *Handler) YouTube(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	var req YouTubeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	url := strings.TrimSpace(req.URL)
	if _, err := VideoID(url); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		name = DefaultProjectName
	}

	project, err := h.projects.Create(r.Context(), projects.CreateCommand{
		WorkspaceID: wsID,
		Name:        name,
		SourceType:  projects.SourceYouTube,
		SourceRef:   url,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, projects.MapHTTPStatus(err), fmt.Errorf("create project: %w", err))
		return
	}

	job, err := h.dispatcher.Dispatch(r.Context(), tasks.IngestYouTube, jobs.CreateCommand{
		WorkspaceID: wsID,
		ProjectID:   &project.ID,
		Kind:        jobs.KindIngest,
		Input:       Input{URL: url},
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, job)
}

package generate

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/internal/templates"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// Handler provides the HTTP endpoint that starts a generate job.
type Handler struct {
	projects   projects.Store
	templates  templates.Finder
	dispatcher tasks.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	projectStore projects.Store,
	templateFinder templates.Finder,
	dispatcher tasks.Dispatcher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		projects:   projectStore,
		templates:  templateFinder,
		dispatcher: dispatcher,
		logger:     logger.With("handler", "generate"),
	}
}

// Routes returns the route group definition for generation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/generate",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Generate},
		},
	}
}

// Generate validates the project and template, then queues a generate job.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	var in Input
	if err := handlers.DecodeJSON(r, &in); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if in.ProjectID == nil || *in.ProjectID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingProject)
		return
	}

	in.Normalize()
	if err := in.CheckOutputs(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	project, err := h.projects.Find(r.Context(), wsID, *in.ProjectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			err = ErrProjectNotFound
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if in.TemplateID != nil {
		t, err := h.templates.Find(r.Context(), wsID, *in.TemplateID)
		if err != nil {
			if errors.Is(err, templates.ErrNotFound) {
				err = ErrTemplateNotFound
			}
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		if err := in.CheckTemplate(t.Kind); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	job, err := h.dispatcher.Dispatch(r.Context(), tasks.GeneratePosts, jobs.CreateCommand{
		WorkspaceID: wsID,
		ProjectID:   &project.ID,
		Kind:        jobs.KindGenerate,
		Input:       in,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, job)
}

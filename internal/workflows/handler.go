package workflows

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// Handler provides HTTP endpoints for workflow operations.
type Handler struct {
	sys        System
	validator  Validator
	projects   projects.Store
	dispatcher tasks.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	sys System,
	v Validator,
	projectStore projects.Store,
	dispatcher tasks.Dispatcher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sys:        sys,
		validator:  v,
		projects:   projectStore,
		dispatcher: dispatcher,
		logger:     logger.With("handler", "workflows"),
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/workflows",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/{id}/run", Handler: h.Run},
		},
	}
}

// List returns the workspace's workflows, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	items, err := h.sys.List(r.Context(), wsID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single workflow by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	wsID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	wf, err := h.sys.Find(r.Context(), wsID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, wf)
}

// Create validates the definition and stores a new workflow.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	var cmd CreateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.WorkspaceID = wsID

	if err := h.validator.Validate(cmd.Definition); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	wf, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, wf)
}

// Run re-validates the workflow, checks the optional project, and queues a
// workflow job whose input is the request body plus the workflow id.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	wsID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	var in RunInput
	if err := handlers.DecodeJSON(r, &in); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	wf, err := h.sys.Find(r.Context(), wsID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.validator.Validate(wf.Definition); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if in.ProjectID != nil {
		if _, err := h.projects.Find(r.Context(), wsID, *in.ProjectID); err != nil {
			if errors.Is(err, projects.ErrNotFound) {
				err = ErrProjectNotFound
			}
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	in.WorkflowID = wf.ID
	job, err := h.dispatcher.Dispatch(r.Context(), tasks.RunWorkflow, jobs.CreateCommand{
		WorkspaceID: wsID,
		ProjectID:   in.ProjectID,
		Kind:        jobs.KindWorkflow,
		Input:       in,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("dispatch workflow run: %w", err))
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, job)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return uuid.Nil, uuid.Nil, false
	}
	return wsID, id, true
}

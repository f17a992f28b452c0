package artifacts

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// Handler provides HTTP endpoints for artifact operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "artifacts"),
	}
}

// Routes returns the route group definition for artifact endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update},
		},
	}
}

// List returns a project's artifacts, newest first. project_id is required;
// kind optionally narrows the result.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil || filters.ProjectID == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	items, err := h.sys.List(r.Context(), wsID, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single artifact by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	wsID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	a, err := h.sys.Find(r.Context(), wsID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Update applies a partial edit to an artifact.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	wsID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Update(r.Context(), wsID, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
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

package credentials

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// Handler provides HTTP endpoints for workspace provider settings.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "credentials"),
	}
}

// Routes returns the route group definition for provider settings endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/provider-settings",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/text", Handler: h.List},
			{Method: "PUT", Pattern: "/text/{provider}", Handler: h.Upsert},
			{Method: "DELETE", Pattern: "/text/{provider}", Handler: h.Delete},
		},
	}
}

// List reports how each text provider is configured for the workspace.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	settings, err := h.sys.Settings(r.Context(), wsID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, settings)
}

// Upsert stores or replaces the workspace key for a provider.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	var cmd UpsertCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Upsert(r.Context(), wsID, r.PathValue("provider"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Delete removes the workspace key for a provider.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	deleted, err := h.sys.Delete(r.Context(), wsID, r.PathValue("provider"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"ok": deleted})
}

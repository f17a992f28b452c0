package providers

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
)

// Handler lists registered providers and their availability for the calling workspace.
type Handler struct {
	registry *Registry
	logger   *slog.Logger
}

// NewHandler creates a Handler over registry.
func NewHandler(registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger.With("handler", "providers"),
	}
}

// Routes returns the route group definition for provider listing endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/providers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/text", Handler: h.ListText},
			{Method: "GET", Pattern: "/image", Handler: h.ListImage},
		},
	}
}

// ListText returns every text provider in name order.
func (h *Handler) ListText(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	names := h.registry.ListText()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		info, err := h.registry.TextInfo(r.Context(), wsID, name)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		out = append(out, info)
	}

	handlers.RespondJSON(w, http.StatusOK, out)
}

// ListImage returns every image provider in name order.
func (h *Handler) ListImage(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	names := h.registry.ListImage()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		info, err := h.registry.ImageInfo(r.Context(), wsID, name)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		out = append(out, info)
	}

	handlers.RespondJSON(w, http.StatusOK, out)
}

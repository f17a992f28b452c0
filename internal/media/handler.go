package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/handlers"
	"github.com/JaimeStill/trendr/pkg/routes"
	"github.com/JaimeStill/trendr/pkg/storage"
)

// ArtifactFinder loads a single artifact scoped to a workspace.
type ArtifactFinder interface {
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*artifacts.Artifact, error)
}

// Handler provides HTTP endpoints for image generation and stored image content.
type Handler struct {
	projects   projects.Store
	artifacts  ArtifactFinder
	blobs      Blobs
	dispatcher tasks.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	projectStore projects.Store,
	artifactFinder ArtifactFinder,
	blobs Blobs,
	dispatcher tasks.Dispatcher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		projects:   projectStore,
		artifacts:  artifactFinder,
		blobs:      blobs,
		dispatcher: dispatcher,
		logger:     logger.With("handler", "media"),
	}
}

// Routes returns the route group definition for media endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/media",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/images", Handler: h.Generate},
			{Method: "GET", Pattern: "/images/{id}/content", Handler: h.Content},
		},
	}
}

// Generate validates the project and queues a media job.
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
	in.Normalize()

	if in.ProjectID == nil || *in.ProjectID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingProject)
		return
	}
	if in.Prompt == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingPrompt)
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

	job, err := h.dispatcher.Dispatch(r.Context(), tasks.GenerateImage, jobs.CreateCommand{
		WorkspaceID: wsID,
		ProjectID:   &project.ID,
		Kind:        jobs.KindMedia,
		Input:       in,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, job)
}

// Content streams the stored blob behind an image artifact.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	wsID, err := workspaces.ID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, workspaces.MapHTTPStatus(err), err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, artifacts.ErrInvalidInput)
		return
	}

	a, err := h.artifacts.Find(r.Context(), wsID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, artifacts.MapHTTPStatus(err), err)
		return
	}

	key, _ := a.Meta["storage_key"].(string)
	if a.Kind != artifacts.KindImage || key == "" {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrNotImage), ErrNotImage)
		return
	}

	body, err := h.blobs.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

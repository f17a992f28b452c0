// Package templates stores versioned, workspace-owned prompt templates for text outputs.
package templates

import (
	"time"

	"github.com/google/uuid"
)

// Template is one version of a named prompt template for an output kind.
type Template struct {
	ID          uuid.UUID      `json:"id"`
	WorkspaceID uuid.UUID      `json:"workspace_id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Version     int            `json:"version"`
	Content     string         `json:"content"`
	Meta        map[string]any `json:"meta"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateCommand holds the fields for creating a template version.
// A nil Version selects the next version for (workspace, name, kind).
type CreateCommand struct {
	WorkspaceID uuid.UUID      `json:"-"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Version     *int           `json:"version,omitempty"`
	Content     string         `json:"content"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// UpdateCommand holds the editable fields of a template. Nil fields are left unchanged.
type UpdateCommand struct {
	Name    *string         `json:"name,omitempty"`
	Version *int            `json:"version,omitempty"`
	Content *string         `json:"content,omitempty"`
	Meta    *map[string]any `json:"meta,omitempty"`
}

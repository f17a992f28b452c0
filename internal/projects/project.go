// Package projects manages ingestion sources. A project groups the artifacts
// derived from one source.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// SourceYouTube is the only supported source type.
const SourceYouTube = "youtube"

// Project is a named source within a workspace.
type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	SourceType  string    `json:"source_type"`
	SourceRef   string    `json:"source_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand holds the fields for creating a project.
type CreateCommand struct {
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	SourceType  string    `json:"source_type"`
	SourceRef   string    `json:"source_ref"`
}

package artifacts

import (
	"context"

	"github.com/google/uuid"
)

// Store is the subset of artifact persistence used by units of work.
type Store interface {
	Create(ctx context.Context, cmd CreateCommand) (*Artifact, error)
	// Latest returns the most recently created artifact of kind for a project.
	Latest(ctx context.Context, workspaceID, projectID uuid.UUID, kind Kind) (*Artifact, error)
}

// System defines the public contract for artifact domain operations.
type System interface {
	Store

	Handler() *Handler

	List(ctx context.Context, workspaceID uuid.UUID, filters Filters) ([]Artifact, error)
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*Artifact, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, cmd UpdateCommand) (*Artifact, error)
}

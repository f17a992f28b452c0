package templates

import (
	"context"

	"github.com/google/uuid"
)

// Finder looks up a template within a workspace.
type Finder interface {
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*Template, error)
}

// System defines the public contract for template domain operations.
type System interface {
	Finder

	Handler() *Handler

	List(ctx context.Context, workspaceID uuid.UUID, kind *string) ([]Template, error)
	Create(ctx context.Context, cmd CreateCommand) (*Template, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, cmd UpdateCommand) (*Template, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

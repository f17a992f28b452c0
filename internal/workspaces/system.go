package workspaces

import (
	"context"

	"github.com/google/uuid"
)

// System defines the workspace operations used by request middleware and workers.
type System interface {
	// Resolve returns the workspace for slug, creating it on first use.
	Resolve(ctx context.Context, slug string) (*Workspace, error)
	Find(ctx context.Context, id uuid.UUID) (*Workspace, error)
}

package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/pagination"
)

// Store is the subset of project persistence used by units of work.
type Store interface {
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, cmd CreateCommand) (*Project, error)
}

// System defines the public contract for project domain operations.
type System interface {
	Store

	Handler() *Handler

	List(
		ctx context.Context,
		workspaceID uuid.UUID,
		page pagination.PageRequest,
	) (*pagination.PageResult[Project], error)
}

package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/pagination"
)

// Store is the subset of job persistence used by units of work and the
// workflow executor. Every call is scoped to a workspace.
type Store interface {
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*Job, error)
	Create(ctx context.Context, cmd CreateCommand) (*Job, error)
	// Transition moves a job to cmd.Status. A move to StatusRunning only
	// applies to a queued job; otherwise it returns ErrNotQueued.
	Transition(ctx context.Context, workspaceID, id uuid.UUID, cmd TransitionCommand) (*Job, error)
}

// System defines the public contract for job domain operations.
type System interface {
	Store

	Handler() *Handler

	List(
		ctx context.Context,
		workspaceID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Job], error)

	// SetTaskID records the queue message id that will execute the job.
	SetTaskID(ctx context.Context, workspaceID, id uuid.UUID, taskID string) (*Job, error)
}
